// Command dcmdump parses a single DICOM Part 10 file and prints its
// element tree, following the teacher-family pattern of a thin cobra CLI
// over the library (jpfielding-dicos.go's cmd/ctl, b71729-opendcm's
// cmd/opendcm-util).
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	dicom "github.com/odincare/dcmp10"
	"github.com/odincare/dcmp10/dicomlog"
)

var (
	untilTag string
	hint     string
	logFile  string
	verbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dcmdump <file>",
		Short: "Parse a DICOM Part 10 file and print its element tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}
	cmd.Flags().StringVar(&untilTag, "until-tag", "", "stop parsing once this canonical tag (xggggeeee) is inserted")
	cmd.Flags().StringVar(&hint, "transfer-syntax-hint", "", "transfer syntax UID to assume if the file is missing its DICM prefix")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write operational logs to this file (rotated) instead of stderr")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	if logFile != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	if verbose {
		dicomlog.SetLevel(1)
	}

	logger := logrus.WithField("run_id", uuid.NewString())

	path := args[0]
	dicomlog.Vprintf(1, "dcmdump: reading %s", path)
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dcmdump: %w", err)
	}

	ds, err := dicom.Parse(buf, dicom.ParseOptions{
		UntilTag:           untilTag,
		TransferSyntaxHint: hint,
	})
	if err != nil {
		logger.WithError(err).Error("parse failed")
		return err
	}

	for _, w := range ds.Warnings {
		logger.Warn(w)
	}
	fmt.Fprint(cmd.OutOrStdout(), ds.Dump())
	dicomlog.Vprintf(1, "dcmdump: parsed %d top-level element(s)", len(ds.Elements))
	return nil
}
