package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsecr "github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/distribution-auth/ecr-supplier/auth/ecr"
)

var (
	region     string
	profile    string
	backoff    time.Duration
	maxRetries int
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "ecr-login",
	Short: "Supply Amazon ECR registry credentials",
	Long:  "Fetches short-lived ECR credentials and prints them as docker-style auth JSON.",
}

var authCmd = &cobra.Command{
	Use:   "auth <image>",
	Short: "Print authentication for an image reference",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuth,
}

var swarmCmd = &cobra.Command{
	Use:   "swarm",
	Short: "Print authentication for swarm configuration",
	Args:  cobra.NoArgs,
	RunE:  runSwarm,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Print the per-registry authentication map for builds",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "AWS region (default: from environment)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().DurationVar(&backoff, "backoff", ecr.DefaultBackoff, "wait between retries after server faults")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", ecr.DefaultMaxRetries, "retries after the initial token request")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	rootCmd.AddCommand(authCmd, swarmCmd, buildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newSupplier(cmd *cobra.Command) (ecr.Supplier, error) {
	logger := zap.NewNop()

	if debug {
		var err error

		logger, err = zap.NewDevelopment()
		if err != nil {
			return ecr.Supplier{}, err
		}
	}

	var optFns []func(*awsconfig.LoadOptions) error

	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}

	if profile != "" {
		optFns = append(optFns, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(cmd.Context(), optFns...)
	if err != nil {
		return ecr.Supplier{}, err
	}

	return ecr.NewSupplier(
		awsecr.NewFromConfig(cfg),
		ecr.WithBackoff(backoff),
		ecr.WithMaxRetries(maxRetries),
		ecr.WithLogger(logger),
	), nil
}

func runAuth(cmd *cobra.Command, args []string) error {
	supplier, err := newSupplier(cmd)
	if err != nil {
		return err
	}

	registryAuth, err := supplier.AuthFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if !registryAuth.HasValue() {
		return fmt.Errorf("%s is not an ECR image", args[0])
	}

	return printJSON(registryAuth.Value())
}

func runSwarm(cmd *cobra.Command, _ []string) error {
	supplier, err := newSupplier(cmd)
	if err != nil {
		return err
	}

	registryAuth := supplier.AuthForSwarm(cmd.Context())
	if !registryAuth.HasValue() {
		return fmt.Errorf("no ECR credentials available")
	}

	return printJSON(registryAuth.Value())
}

func runBuild(cmd *cobra.Command, _ []string) error {
	supplier, err := newSupplier(cmd)
	if err != nil {
		return err
	}

	return printJSON(supplier.AuthForBuild(cmd.Context()))
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
