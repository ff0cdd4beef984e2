package services

import "errors"

var (
	ErrAlreadyCheckedOut   = errors.New("booking is already checked out")
	ErrOperationInProgress = errors.New("another operation on this booking is in progress")
	ErrNotConfirmed        = errors.New("deletion not confirmed")
	ErrNoBookingID         = errors.New("booking has no id")
	ErrHistoryQuery        = errors.New("history lookup needs a mobile number or an Aadhaar number")
	ErrDocumentUpload      = errors.New("document upload failed")
	ErrPasswordMismatch    = errors.New("new passwords do not match")
)
