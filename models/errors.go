package models

import "errors"

var (
	// ErrContainerCorrupt means the outer archive could not be opened or listed.
	ErrContainerCorrupt = errors.New("container corrupt")
	// ErrMemberCorrupt means a member could not be read or decompressed.
	ErrMemberCorrupt = errors.New("member corrupt")
	// ErrMemberTooLarge means a member or its decompressed payload exceeded the configured limit.
	ErrMemberTooLarge = errors.New("member too large")
)

// Failure kinds recorded in MemberFailure.ErrorType.
const (
	FailureRead       = "read_error"
	FailureDecompress = "decompress_error"
	FailureNestedTar  = "nested_tar_error"
	FailureSizeLimit  = "size_limit"
)
