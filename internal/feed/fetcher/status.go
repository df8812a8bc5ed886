package fetcher

import (
	"fmt"
	"net/http"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
)

// CheckResponseStatus converts a non-200 response into a typed error.
// 5xx and 429 map to Unavailable (the host may recover by the next run);
// everything else maps to ExecutionFailed.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	errType := apperrors.ExecutionFailed
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		errType = apperrors.Unavailable
	}

	return apperrors.New(errType, fmt.Sprintf("HTTP request failed with status %s", resp.Status))
}
