package cli

import (
	"time"

	"github.com/briandowns/spinner"
)

// MinOperationDelay is how long the spinner stays up at minimum. Pacing is a
// presentation concern; the data layer itself adds no artificial delays.
const MinOperationDelay = 1500 * time.Millisecond

// withMinDuration runs fn behind a spinner and keeps the spinner visible for
// at least min, so fast local operations don't flash. fn's error is returned
// unchanged; the padding is not cancellable.
func withMinDuration(msg string, min time.Duration, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + msg
	_ = s.Color("cyan")
	s.Start()
	defer s.Stop()

	start := time.Now()
	err := fn()
	if remaining := min - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
	return err
}
