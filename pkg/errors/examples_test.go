package errors_test

import (
	"fmt"

	"github.com/agentstation/apirunner/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewNotFoundError("dataset", "contacts")

	if errors.IsNotFound(err) {
		fmt.Println("Dataset not found")
	}

	// Output: Dataset not found
}

// Example_aPIError demonstrates handling a failed list call.
func Example_aPIError() {
	err := errors.NewAPIError("list", 429, "Too Many Requests")

	if errors.IsRateLimited(err) {
		fmt.Println(err)
	}

	// Output: list failed: 429 Too Many Requests
}
