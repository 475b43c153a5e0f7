// Package cli is the terminal front end. It only consumes the service APIs
// and their error signals; no cryptographic or consistency logic lives here.
// UX pacing (the minimum-duration spinner around mutating operations) is a
// presentation concern implemented in this package, not in the data layer.
package cli
