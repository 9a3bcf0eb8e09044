package geocoder

import (
	"context"
	"errors"
	"fmt"
	"net"

	"photo-sorter/internal/models"
)

// ErrTimeout marks a reverse lookup that did not complete within its deadline.
var ErrTimeout = errors.New("geocoder: timeout")

// Geocoder resolves a coordinate to address components. A nil address with a nil
// error means the provider knows nothing at that point (e.g. open sea).
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, c models.Coordinate) (*models.Address, error)
}

// classify wraps err in ErrTimeout when it was caused by a deadline.
func classify(ctx context.Context, err error) error {
	if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
