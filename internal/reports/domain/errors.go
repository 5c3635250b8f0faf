package reports

import "errors"

var (
	// ErrReportNotFound indicates an unknown report identifier.
	ErrReportNotFound = errors.New("report not found")
	// ErrEmptyReportID indicates a missing report identifier.
	ErrEmptyReportID = errors.New("empty report id")
	// ErrInvalidStatus indicates a status outside the closed set.
	ErrInvalidStatus = errors.New("invalid report status")
	// ErrAlreadyFinished indicates a second terminal transition attempt.
	ErrAlreadyFinished = errors.New("report already finished")
	// ErrEmptyLocation indicates a completion without an artifact location.
	ErrEmptyLocation = errors.New("empty artifact location")
	// ErrArtifactNotFound indicates a missing artifact for a report id.
	ErrArtifactNotFound = errors.New("report artifact not found")
)
