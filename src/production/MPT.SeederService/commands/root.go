package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	container "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Container"
	hardware_models "gitlab.com/maplesense1/mpt.device_seeder/src/production/MPT.Models/hardware"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError is returned when the command line cannot be accepted
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ContainerFactory builds the run's dependencies once the arguments are valid
type ContainerFactory func() (*container.SeederContainer, error)

// Options holds the parsed command line
type Options struct {
	DeviceID string
	Password string
}

// NewRootCmd creates the device seeder command
func NewRootCmd(newContainer ContainerFactory) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "device-seeder --device-id <id> [--password <pw>]",
		Short: "Append a new device row into public.devices",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &UsageError{Err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("device-id") {
				return &UsageError{Err: errors.New(`required flag(s) "device-id" not set`)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password *string
			if cmd.Flags().Changed("password") {
				password = &opts.Password
			}
			return run(cmd, newContainer, hardware_models.NewDevice(opts.DeviceID, password))
		},
	}

	// --device-password is the same flag as --password
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "device-password" {
			name = "password"
		}
		return pflag.NormalizedName(name)
	})
	cmd.Flags().StringVar(&opts.DeviceID, "device-id", "", "Unique device_id (text, primary key in public.devices) (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Optional device_password to store with the device (alias --device-password)")
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	return cmd
}

func run(cmd *cobra.Command, newContainer ContainerFactory, device hardware_models.Device) error {
	ctx := cmd.Context()

	ctr, err := newContainer()
	if err != nil {
		return err
	}

	log := ctr.GetLogger().WithComponent("seeder").WithField("device_id", device.DeviceID)

	data, err := ctr.GetDeviceRepository().InsertDevice(ctx, device)
	if err != nil {
		log.ErrorWithError(err, "Device insert failed")
		return err
	}
	log.Info("Device inserted")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Inserted device row:")
	fmt.Fprintln(out, string(data))
	return nil
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, newContainer ContainerFactory) int {
	cmd := NewRootCmd(newContainer)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprint(stderr, cmd.UsageString())
		return ExitUsage
	}
	return ExitError
}
