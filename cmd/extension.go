package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"syscall"
)

const (
	EnvHoldingsFile = "TRK_HOLDINGS_FILE"
	EnvDataDir      = "TRK_DATA_DIR"
	EnvCurrency     = "TRK_CURRENCY"
	EnvProviders    = "TRK_PROVIDERS"
	EnvHistory      = "TRK_HISTORY"
	EnvConfig       = "TRK_CONFIG"
	EnvVerbose      = "TRK_VERBOSE"
)

// extensionEnv returns the environment of an extension: the current one plus the
// resolved global flags.
func extensionEnv() []string {
	env := os.Environ()
	env = append(env, EnvHoldingsFile+"="+*holdingsFile)
	env = append(env, EnvDataDir+"="+*dataDir)
	env = append(env, EnvCurrency+"="+*defaultCurrency)
	env = append(env, EnvProviders+"="+*providers)
	env = append(env, EnvHistory+"="+*history)
	env = append(env, EnvVerbose+"="+strconv.FormatBool(*Verbose))
	return env
}

// RunExtension attempts to find and execute an external trk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "trk-" + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("extension-not-found name=%q err=%v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Pass global flags as environment variables
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		// If it's not an ExitError or we can't get the status, report a generic error
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)

		return true, 1 // Indicate that an attempt was made, but it failed
	}

	return true, 0 // External command executed successfully with exit code 0
}
