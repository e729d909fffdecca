package wrap

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/plsqlnorm/plsqlnorm/internal/normalize"
)

// Run invokes $ORACLE_HOME/bin/wrap on pathIn, producing pathOut. The Oracle
// utility silently writes an empty or merely copied file when it dislikes
// the input, so the output is verified to really carry the envelope.
func Run(pathIn, pathOut string) error {
	oracleHome := os.Getenv("ORACLE_HOME")
	if oracleHome == "" {
		return fmt.Errorf("ORACLE_HOME environment variable is not set")
	}
	if filepath.Ext(pathOut) == "" {
		return fmt.Errorf("wrap to a file without extension is not supported (%q)", pathOut)
	}

	bin := filepath.Join(oracleHome, "bin", "wrap")
	if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("oracle wrap utility not found: %w", err)
	}

	// The wrap binary refuses input files without an extension; bridge with
	// a symlink in a scratch directory.
	if filepath.Ext(pathIn) == "" {
		tmpDir, err := os.MkdirTemp("", "plsqlwrap")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)

		abs, err := filepath.Abs(pathIn)
		if err != nil {
			return err
		}
		linked := filepath.Join(tmpDir, filepath.Base(pathIn)+".sql")
		if err := os.Symlink(abs, linked); err != nil {
			return err
		}
		pathIn = linked
	}

	sep := string(os.PathListSeparator)
	cmd := exec.Command(bin, "iname="+pathIn, "oname="+pathOut)
	cmd.Env = append(os.Environ(),
		"PATH="+filepath.Join(oracleHome, "bin")+sep+os.Getenv("PATH"),
		"LD_LIBRARY_PATH="+filepath.Join(oracleHome, "lib")+sep+os.Getenv("LD_LIBRARY_PATH"),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wrap failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return verifyWrapped(pathOut)
}

// verifyWrapped checks that the wrap utility produced a real envelope.
func verifyWrapped(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output file %q was not created", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output file %q has zero length", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !normalize.IsWrapped(string(raw)) {
		return fmt.Errorf("output file %q is not actually wrapped", path)
	}
	return nil
}
