package monitor

import (
	"fmt"

	"github.com/pkg/browser"
)

// Open launches the local default browser at the /status endpoint of the
// monitor listening on addr. The sole call site for github.com/pkg/browser.
func Open(addr string) error {
	return browser.OpenURL(fmt.Sprintf("http://%s/status", addr))
}
