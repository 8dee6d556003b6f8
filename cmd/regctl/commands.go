package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"company-registry/internal/app"
	"company-registry/internal/registry"
	"company-registry/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

type cliState struct {
	build func() (*app.CLI, error)
	core  *app.CLI
}

func (s *cliState) open() (*app.CLI, error) {
	if s.core != nil {
		return s.core, nil
	}
	core, err := s.build()
	if err != nil {
		return nil, err
	}
	s.core = core
	return core, nil
}

func (s *cliState) close() {
	if s.core != nil {
		_ = s.core.Close()
		s.core = nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe turns service errors into the message a terminal user should
// see.
func describe(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return errors.New(appErr.Message)
	}
	return err
}

// run executes one regctl invocation and releases the slot file
// afterwards, whether or not the command succeeded.
func run(build func() (*app.CLI, error), args []string, out io.Writer) error {
	state := &cliState{build: build}
	defer state.close()

	root := newRootCmd(state)
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}

func newRootCmd(state *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:           "regctl",
		Short:         "Submit, look up and review company registrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSubmitCmd(state),
		newStatusCmd(state),
		newCertificateCmd(state),
		newAdminCmd(state),
	)
	return root
}

func newSubmitCmd(state *cliState) *cobra.Command {
	var req registry.SubmitRequest

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new company registration",
		Long: `Submit a new company registration and print its id.

Examples:
  regctl submit --company-name "Acme Ltd" --registration-number RN-1
  regctl submit --company-name "Acme Ltd" --registration-number RN-1 --email ops@acme.test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validate.Struct(req); err != nil {
				return describe(apperror.MapValidationError(err))
			}
			core, err := state.open()
			if err != nil {
				return err
			}
			id, err := core.Registration.Submit(cmd.Context(), req)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), registry.SubmitResponse{ID: id})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.CompanyName, "company-name", "", "registered company name")
	f.StringVar(&req.RegistrationNumber, "registration-number", "", "official registration number")
	f.StringVar(&req.BusinessType, "business-type", "", "business type, e.g. LLC")
	f.StringVar(&req.Address, "address", "", "registered address")
	f.StringVar(&req.ContactPerson, "contact-person", "", "contact person")
	f.StringVar(&req.Email, "email", "", "contact email")
	f.StringVar(&req.Phone, "phone", "", "contact phone")
	return cmd
}

func newStatusCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "status <registration-number>",
		Short: "Show the status of a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := state.open()
			if err != nil {
				return err
			}
			res, err := core.Lookup.Lookup(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newCertificateCmd(state *cliState) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "certificate <registration-number>",
		Short: "Download the certificate of an approved registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := state.open()
			if err != nil {
				return err
			}
			res, err := core.Lookup.Lookup(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			artifact, err := res.RequestCertificate(cmd.Context())
			if err != nil {
				return describe(err)
			}

			path := filepath.Join(outDir, artifact.FileName)
			if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory the certificate is written to")
	return cmd
}

func newAdminCmd(state *cliState) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Review registrations",
	}

	requireSession := func(cmd *cobra.Command) (*app.CLI, error) {
		core, err := state.open()
		if err != nil {
			return nil, err
		}
		if _, err := core.Auth.Authenticate(cmd.Context(), ""); err != nil {
			return nil, errors.New("not logged in, run: regctl admin login")
		}
		return core, nil
	}

	var username, password string
	login := &cobra.Command{
		Use:   "login",
		Short: "Start an admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("REGCTL_PASSWORD")
			}
			core, err := state.open()
			if err != nil {
				return err
			}
			if _, err := core.Auth.Login(cmd.Context(), username, password); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "logged in as", username)
			return nil
		},
	}
	login.Flags().StringVarP(&username, "username", "u", "admin", "admin username")
	login.Flags().StringVarP(&password, "password", "p", "", "admin password (default $REGCTL_PASSWORD)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "End the admin session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := state.open()
			if err != nil {
				return err
			}
			return core.Auth.Logout(cmd.Context(), "")
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending and approved registrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := requireSession(cmd)
			if err != nil {
				return err
			}
			dashboard, err := core.Review.Dashboard(cmd.Context())
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), dashboard)
		},
	}

	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := requireSession(cmd)
			if err != nil {
				return err
			}
			dashboard, err := core.Review.Approve(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), dashboard)
		},
	}

	var confirmed bool
	reject := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending registration (needs --yes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := requireSession(cmd)
			if err != nil {
				return err
			}
			dashboard, err := core.Review.Reject(cmd.Context(), args[0], confirmed)
			if err != nil {
				return describe(err)
			}
			return printJSON(cmd.OutOrStdout(), dashboard)
		},
	}
	reject.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm the rejection")

	admin.AddCommand(login, logout, list, approve, reject)
	return admin
}
