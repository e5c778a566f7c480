package app

import (
	"io"
	"os"
	"path/filepath"

	"eosindex/internal/core/config"
	"eosindex/internal/core/errors"
	"eosindex/internal/shared/util"
)

// CheckDestination fails when the directory that would hold path does not
// exist. The stdout marker always passes.
func CheckDestination(path string) error {
	if path == config.StdoutPath {
		return nil
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		e := errors.Newf(errors.CodeNotFound, "output directory %s does not exist", dir)
		return errors.AddContext(e, errors.CtxPath, path)
	}
	return nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == config.StdoutPath {
		if _, err := stdout.Write(data); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write document to stdout")
		}
		return nil
	}
	if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
		e := errors.Wrap(err, errors.CodeInternal, "write document")
		return errors.AddContext(e, errors.CtxPath, path)
	}
	return nil
}
