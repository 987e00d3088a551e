package exceptions

import (
	"errors"
	"fmt"
	"strings"
)

type ServiceError struct {
	StatusCode int
	Cause      error
}

func (se *ServiceError) Error() string {
	return fmt.Sprintf("status %d: %s", se.StatusCode, se.Cause.Error())
}

func (se *ServiceError) Unwrap() error {
	return se.Cause
}

type RequestError interface {
	ToServiceError() *ServiceError
	Error() string
}

// RejectionError is a non-2xx answer from the API. Errors holds the
// human-readable messages the server sent back, in server order.
type RejectionError struct {
	StatusCode int
	Errors     []string
}

func (re *RejectionError) Error() string {
	if len(re.Errors) == 0 {
		return fmt.Sprintf("request rejected with status %d", re.StatusCode)
	}
	return strings.Join(re.Errors, "\n")
}

func (re *RejectionError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: re.StatusCode,
		Cause:      re,
	}
}

func Rejection(statusCode int, messages ...string) *RejectionError {
	return &RejectionError{
		StatusCode: statusCode,
		Errors:     messages,
	}
}

type UnexpectedResponseError struct {
	Operation string
	Id        int
}

func (ue *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("Unexpected response from the API for %s on recipe %d", ue.Operation, ue.Id)
}

func UnexpectedResponse(operation string, id int) *UnexpectedResponseError {
	return &UnexpectedResponseError{
		Operation: operation,
		Id:        id,
	}
}

// DetachedError is returned when a response lands after the owning view went
// away; the result was discarded.
type DetachedError struct {
	Operation string
	Id        int
	Cause     error
}

func (de *DetachedError) Error() string {
	if de.Cause != nil {
		return fmt.Sprintf("%s on recipe %d discarded: %s", de.Operation, de.Id, de.Cause)
	}
	return fmt.Sprintf("%s on recipe %d discarded: collection closed", de.Operation, de.Id)
}

func (de *DetachedError) Unwrap() error {
	return de.Cause
}

func Detached(operation string, id int, cause error) *DetachedError {
	return &DetachedError{
		Operation: operation,
		Id:        id,
		Cause:     cause,
	}
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find a %s with id: %s", nfe.Resource, nfe.Id)
}

func (nfe *NotFoundError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 404,
		Cause:      nfe,
	}
}

func NotFound(resource string, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Id:       id,
	}
}

type InvalidInputError struct {
	Message string
}

func (ie *InvalidInputError) Error() string {
	return ie.Message
}

func (ie *InvalidInputError) ToServiceError() *ServiceError {
	return &ServiceError{
		StatusCode: 400,
		Cause:      ie,
	}
}

func InvalidInput(message string) *InvalidInputError {
	return &InvalidInputError{
		Message: message,
	}
}

// Messages returns the server supplied messages carried by err, if any.
func Messages(err error) ([]string, bool) {
	var re *RejectionError
	if errors.As(err, &re) && len(re.Errors) > 0 {
		return re.Errors, true
	}
	return nil, false
}

// StatusCode maps err to an HTTP status, defaulting to 500.
func StatusCode(err error) int {
	var re RequestError
	if errors.As(err, &re) {
		return re.ToServiceError().StatusCode
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 500
}
