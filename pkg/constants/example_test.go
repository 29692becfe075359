package constants_test

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/apirunner/pkg/constants"
)

// Example shows the keys saved values live under.
func Example() {
	fmt.Println(constants.CurrentProfileKey)
	fmt.Println(constants.DatasetKeyPrefix + "contacts")
	// Output:
	// apiRunner.currentProfile
	// apiRunner.dataset.contacts
}

// Example_proxyTimeout bounds a single outbound call.
func Example_proxyTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ProxyTimeout)
	defer cancel()

	deadline, _ := ctx.Deadline()
	fmt.Println(time.Until(deadline) <= 30*time.Second)
	// Output: true
}

// Example_datasetDefaults shows the limits used when a build gives none.
func Example_datasetDefaults() {
	fmt.Printf("max items: %d\n", constants.DefaultMaxItems)
	fmt.Printf("detail calls in flight: %d\n", constants.DefaultDetailConcurrency)
	// Output:
	// max items: 20
	// detail calls in flight: 1
}

// Example_permissions shows the modes used for saved datasets and plans.
func Example_permissions() {
	fmt.Printf("%o %o %o\n", constants.DirPermissions, constants.FilePermissions, constants.SecureFilePermissions)
	// Output: 755 644 600
}
