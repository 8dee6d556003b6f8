// Command regctl submits, looks up and reviews company registrations from
// a terminal. It talks to the registry API and keeps working from its
// local SQLite file while the API is unreachable.
package main

import (
	"fmt"
	"os"

	"company-registry/internal/app"
	"company-registry/internal/shared/config"

	"go.uber.org/zap"
)

func main() {
	build := func() (*app.CLI, error) {
		cfg, err := config.Load[config.CLI]()
		if err != nil {
			return nil, err
		}
		return app.BuildCLI(cfg, zap.NewNop())
	}

	if err := run(build, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
