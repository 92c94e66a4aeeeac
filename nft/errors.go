package nft

import (
	"fmt"
	"sort"
	"strings"
)

const (
	MessageUploadFailed = "Failed to upload the file. Please try again later."
	MessageMintFailed   = "Failed to submit the form. Please try again."
	MessageNoWallet     = "You must connect your wallet before minting!"
	MessageNoDraft      = "A valid image upload is required before minting!"
)

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, found := e.Fields[field]; !found {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid " + strings.Join(parts, "; ")
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

type PreconditionError struct {
	Message string
}

func NewPreconditionError(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

func (e *PreconditionError) Error() string {
	return e.Message
}

// CollaboratorError wraps a failure of the storage, wallet or contract
// collaborator. Message is safe to show to users, Err is not.
type CollaboratorError struct {
	Op      string
	Message string
	Err     error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
