package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrUsage       = errors.New("invalid usage")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
	ErrEmptyInput  = errors.New("input is empty")
	ErrFixture     = errors.New("invalid fixture")
)
