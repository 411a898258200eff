package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Engine   string     `json:"engine"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctor runs the checks. Its lookups are fields so tests can replace them.
type doctor struct {
	getenv     func(string) string
	lookPath   func() (string, bool)
	version    func(path string) (string, error)
	fileExists func(path string) bool
	tempDir    string
}

// newDoctor returns a doctor wired to the real system.
func newDoctor(getenv func(string) string) *doctor {
	return &doctor{
		getenv:   getenv,
		lookPath: launcher.LookPath,
		version: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- browser path
			return strings.TrimSpace(string(out)), err
		},
		fileExists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		tempDir: os.TempDir(),
	}
}

// newDoctorCmd builds the environment diagnostics command.
func (a *app) newDoctorCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that PDF output can run on this system",
		Long: `Doctor looks for Chrome/Chromium, detects containers and CI, and checks
the temp directory. A missing browser is an error only when the configured
PDF engine is chrome.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			result := newDoctor(a.env.Getenv).run(a.env.Config.Renderer.Engine)
			if jsonOutput {
				enc := json.NewEncoder(a.env.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printDoctorResult(a.env.Stdout, result)
			}
			if result.Status == statusErrors {
				return errReported{fmt.Errorf("doctor found %d error(s)", len(result.Errors))}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

// run performs all diagnostic checks for the given PDF engine.
func (d *doctor) run(engine string) *doctorResult {
	if engine == "" {
		engine = "chrome"
	}
	result := &doctorResult{
		Status: statusReady,
		Engine: engine,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  d.getenv("ROD_NO_SANDBOX"),
			BrowserBin: d.getenv("ROD_BROWSER_BIN"),
		},
	}

	d.checkChrome(result)
	d.checkEnvironment(result)
	d.checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects Chrome/Chromium. With the basic engine a missing
// browser is only a warning.
func (d *doctor) checkChrome(result *doctorResult) {
	problem := func(msg string) {
		if result.Engine == "basic" {
			result.Warnings = append(result.Warnings, msg+" (basic engine does not need it)")
			return
		}
		result.Errors = append(result.Errors, msg+"; or use --engine basic")
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = d.lookPath()
		if !found {
			problem("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if !d.fileExists(chromePath) {
		problem(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	if v, err := d.version(chromePath); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func (d *doctor) checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = d.isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if d.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Engine != "basic" && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects a container. The hint names the signal that matched.
func (d *doctor) isContainer() (bool, string) {
	if d.getenv("MATHDOC_CONTAINER") == "1" {
		return true, "MATHDOC_CONTAINER=1"
	}
	if d.fileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := d.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if d.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for page rendering.
func (d *doctor) checkSystem(result *doctorResult) {
	testFile := filepath.Join(d.tempDir, "mathdoc-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", d.tempDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mathdoc doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "PDF engine: %s\n\n", r.Engine)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
