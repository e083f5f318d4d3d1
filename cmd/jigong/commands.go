package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/server"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const shutdownTimeout = 10 * time.Second

var errWipeNotConfirmed = errors.New("refusing to wipe data without --yes")

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	app, err := openApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if !strings.EqualFold(app.config.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Service:      app.service,
		Theme:        app.theme,
		Bus:          app.bus,
		Logger:       app.logger,
		AllowOrigins: app.config.AllowOrigins,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              app.config.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("server starting",
			zap.String("address", app.config.HTTPAddress),
			zap.String("data_dir", app.config.DataDir))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.logger.Info("server stopping")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func newExportCommand() *cobra.Command {
	var contactsOnly bool
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write contacts, projects and attendance as JSON (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var payload any
			if contactsOnly {
				payload, err = app.service.ExportContacts(cmd.Context())
			} else {
				payload, err = app.service.Export(cmd.Context())
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), args, func(w io.Writer) error {
				encoder := json.NewEncoder(w)
				encoder.SetIndent("", "  ")
				return encoder.Encode(payload)
			})
		},
	}
	cmd.Flags().BoolVar(&contactsOnly, "contacts", false, "Export only the contact list")
	return cmd
}

func newExportWorkbookCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-xlsx <file>",
		Short: "Write every collection to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			return writeOutput(cmd.OutOrStdout(), args, func(w io.Writer) error {
				return app.service.ExportWorkbook(cmd.Context(), w)
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON export into the record store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var document tracker.ExportDocument
			if err := json.Unmarshal(raw, &document); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			app, err := openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.service.Import(cmd.Context(), document)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d contacts, %d projects, %d attendance records\n",
				result.Contacts, result.Projects, result.Attendance)
			return err
		},
	}
}

func newWipeCommand() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every record in every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errWipeNotConfirmed
			}
			app, err := openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()
			return app.service.WipeAll(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm the wipe")
	return cmd
}

func newHolidaysCommand() *cobra.Command {
	holidays := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the holiday calendar",
	}
	holidays.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add holidays from a YAML list of {name, date} entries, skipping ones already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := readHolidaySeeds(args[0])
			if err != nil {
				return err
			}
			app, err := openApplication(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			created, err := app.service.ImportHolidays(cmd.Context(), seeds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d of %d holidays\n", created, len(seeds))
			return nil
		},
	})
	return holidays
}

func readHolidaySeeds(path string) ([]tracker.HolidaySeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []tracker.HolidaySeed
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return seeds, nil
}

// writeOutput streams to args[0] when given, otherwise to stdout.
func writeOutput(stdout io.Writer, args []string, write func(io.Writer) error) error {
	if len(args) == 0 || args[0] == "-" {
		return write(stdout)
	}
	file, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
