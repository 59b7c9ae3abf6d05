// Package candidates loads traveler profiles that can be suggested as companions.
package candidates

import (
	"context"
	"errors"
	"strings"

	commonerrors "swellyo-workers/internal/common/errors"
	"swellyo-workers/internal/models"
)

// DefaultLimit applies when a query does not set one.
const DefaultLimit = 200

var (
	ErrIndexNotFound = errors.New("candidate index not found")
	ErrQueryFailed   = errors.New("candidate query failed")
)

// Query selects candidates by destination. An empty Destination lists every profile.
type Query struct {
	Destination string
	Limit       int
}

func (q Query) normalized() Query {
	q.Destination = strings.ToLower(strings.TrimSpace(q.Destination))
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	return q
}

// Repository is implemented by every candidate backend.
type Repository interface {
	FindCandidates(ctx context.Context, q Query) ([]models.CandidateProfile, error)
	// Source names the backend in job output and logs.
	Source() string
}

// ClassifyError maps a repository failure onto the job error codes. A context
// deadline wins over whatever the backend reported.
func ClassifyError(ctx context.Context, source string, err error) *commonerrors.StandardError {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return commonerrors.NewCandidateQueryTimeoutError(source)
	case errors.Is(err, ErrIndexNotFound):
		return commonerrors.NewCandidateIndexNotFoundError(err.Error())
	default:
		return commonerrors.NewCandidateQueryFailedError(source, err)
	}
}
