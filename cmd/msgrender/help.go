package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render     Render chat messages to accessible HTML")
	fmt.Fprintln(w, "  gate       Show the unsupported-environment page for a browser")
	fmt.Fprintln(w, "  compose    Compose an outgoing message from Markdown")
	fmt.Fprintln(w, "  gallery    Render story files to an HTML (and PDF) gallery")
	fmt.Fprintln(w, "  doctor     Check the setup for PDF export")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'msgrender help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by rendering commands.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender render [messages.yaml|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a YAML list of messages. Reads stdin when no file is given.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w, "  -f, --format <s>          Output: html, aria, live")
	fmt.Fprintln(w, "      --blocked             Input lists blocked messages")
	fmt.Fprintln(w, "  -a, --attachments <path>  YAML map of inline image id to URL")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printGateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender gate [environment.yaml|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the page shown to an unsupported environment, or \"supported\".")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -u, --user-agent <s>      Detect the environment from a user agent")
	fmt.Fprintln(w, "  -d, --document            Write a standalone HTML document")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printComposeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender compose [message.md|-] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown to a sanitized HTML message, printed as YAML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --sender-id <s>       Sender user id")
	fmt.Fprintln(w, "      --sender-name <s>     Sender display name")
	fmt.Fprintln(w, "  -i, --image <NAME=URL>    Append an inline image (repeatable)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printGalleryUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender gallery <stories.yaml>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render each stories file to a standalone HTML gallery.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: next to input)")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets: iso, european, us, long")
	fmt.Fprintln(w, "      --no-index            Omit the story index")
	fmt.Fprintln(w, "      --style <name>        Chroma style for story sources")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom templates and styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Also export each gallery to PDF")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --landscape           Landscape orientation")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "      --footer-text <s>     Footer text")
	fmt.Fprintln(w, "      --page-number         Show page numbers")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout, e.g. 45s")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: msgrender doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, container, temp directory and asset setup.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "gate":
		printGateUsage(env.Stdout)
	case "compose":
		printComposeUsage(env.Stdout)
	case "gallery":
		printGalleryUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: msgrender version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: msgrender help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
