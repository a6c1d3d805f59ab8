package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"school-attendance-api/internal/auth"
	"school-attendance-api/internal/config"
	"school-attendance-api/internal/kiosk"
	"school-attendance-api/internal/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewPreloadCommand refreshes the local snapshot from the remote store.
func NewPreloadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preload",
		Short: "Refresh roster, today's attendance and settings from the remote store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Preload(cmd.Context()); err != nil {
				return err
			}
			n := svc.RosterSize()
			return output(cmd.OutOrStdout(), opts, map[string]int{"rosterSize": n}, func(w io.Writer) {
				fmt.Fprintf(w, "preloaded %d students\n", n)
			})
		},
	}
}

// NewSyncCommand reconciles the queue and then preloads.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send queued check-ins to the remote store now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			syncErr := svc.ForceSyncNow(cmd.Context())
			st := svc.Status()
			if err := printStatus(cmd.OutOrStdout(), opts, st); err != nil {
				return err
			}
			return syncErr
		},
	}
}

// NewCheckInCommand records a check-in from the terminal.
func NewCheckInCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <studentId>",
		Short: "Check a student in at the current time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CheckIn(args[0])
			if err != nil && !errors.Is(err, kiosk.ErrAlreadyCheckedIn) && !errors.Is(err, kiosk.ErrUnknownStudent) {
				return err
			}
			if outErr := output(cmd.OutOrStdout(), opts, res, func(w io.Writer) {
				if res.Student != nil {
					fmt.Fprintf(w, "%s (%s): ", res.Student.Name, res.Student.ID)
				}
				fmt.Fprintln(w, res.Message)
				if res.Status == models.StatusLate {
					fmt.Fprintf(w, "late by %d min\n", res.MinutesLate)
				}
			}); outErr != nil {
				return outErr
			}
			return err
		},
	}
}

// NewStatusCommand prints the sync status and pending count.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and the number of pending check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts)
			if err != nil {
				return err
			}
			defer cleanup()
			return printStatus(cmd.OutOrStdout(), opts, svc.Status())
		},
	}
}

// NewQueueCommand lists the local queue, oldest first.
func NewQueueCommand(opts *RootOptions) *cobra.Command {
	var pendingOnly bool
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List locally recorded check-ins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			events := svc.Queue()
			if pendingOnly {
				kept := events[:0]
				for _, e := range events {
					if !e.Synced {
						kept = append(kept, e)
					}
				}
				events = kept
			}
			return output(cmd.OutOrStdout(), opts, events, func(w io.Writer) {
				for _, e := range events {
					state := "synced"
					if !e.Synced {
						state = "pending"
					}
					fmt.Fprintf(w, "%s  %-10s %-7s %3d  %s\n", e.Timestamp.Format(time.DateTime), e.StudentID, e.Status, e.MinutesLate, state)
				}
				fmt.Fprintf(w, "%d events\n", len(events))
			})
		},
	}
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "only show events not yet synced")
	return cmd
}

// NewTokenCommand mints a bearer token with the configured JWT secret,
// typically a long-lived kiosk token for REMOTE_TOKEN.
func NewTokenCommand(opts *RootOptions) *cobra.Command {
	var (
		username string
		role     string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return err
			}
			r := models.Role(role)
			if !r.Valid() {
				return fmt.Errorf("invalid role %q", role)
			}
			tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, ttl)
			token, err := tm.GenerateToken(uuid.NewString(), username, r)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), opts, map[string]string{"token": token}, func(w io.Writer) {
				fmt.Fprintln(w, token)
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "kiosk", "username claim")
	cmd.Flags().StringVar(&role, "role", string(models.RoleKiosk), "role claim (admin|supervisor|kiosk)")
	cmd.Flags().DurationVar(&ttl, "ttl", 365*24*time.Hour, "token lifetime")
	return cmd
}

func printStatus(w io.Writer, opts *RootOptions, st kiosk.StatusEvent) error {
	return output(w, opts, st, func(w io.Writer) {
		fmt.Fprintf(w, "status: %s\npending: %d\n", st.Status, st.Pending)
	})
}
