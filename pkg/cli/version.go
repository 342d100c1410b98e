package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/surveyd/pkg/cli/internal/output"
)

// VersionOutput is the `surveyd version --json` document.
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// String formats the first line of the plain output.
func (v VersionOutput) String() string {
	version := v.Version
	if version != "dev" && !strings.HasPrefix(version, "v") && !strings.HasPrefix(version, "(") {
		version = "v" + version
	}
	return fmt.Sprintf("surveyd %s (%s, %s)", version, v.Commit, v.Date)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show surveyd version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := buildVersion()
		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), v)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s %s/%s\n", v, v.Go, v.OS, v.Arch)
		return nil
	},
}

// buildVersion fills the ldflags values that were left at their defaults
// from the embedded build info.
func buildVersion() VersionOutput {
	v := VersionOutput{
		Version: Version,
		Commit:  Commit,
		Date:    BuildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}

	if v.Version == "dev" && info.Main.Version != "" {
		v.Version = info.Main.Version
	}
	vcs := map[string]string{}
	for _, s := range info.Settings {
		vcs[s.Key] = s.Value
	}
	if rev := vcs["vcs.revision"]; v.Commit == "none" && rev != "" {
		v.Commit = rev
		if vcs["vcs.modified"] == "true" {
			v.Commit += "-dirty"
		}
	}
	if at := vcs["vcs.time"]; v.Date == "unknown" && at != "" {
		v.Date = at
	}
	return v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
