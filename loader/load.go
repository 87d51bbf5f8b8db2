package loader

import (
	"archive/zip"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/xfield/analysis"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("xfield.loader")
}

// Load reads fields from .class files, directories (walked recursively for
// .class files) and .jar archives, in the order the paths are given.
func Load(ctx context.Context, paths []string, opts ...analysis.Option) ([]*analysis.FieldInfo, error) {
	var fields []*analysis.FieldInfo
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		var loaded []*analysis.FieldInfo
		switch {
		case info.IsDir():
			loaded, err = loadDir(ctx, path, opts)
		case strings.HasSuffix(path, ".jar"):
			loaded, err = loadJar(ctx, path, opts)
		case strings.HasSuffix(path, ".class"):
			loaded, err = FromFile(path, opts...)
			if err != nil {
				err = fmt.Errorf("%s: %w", path, err)
			}
		default:
			err = fmt.Errorf("unsupported file: %s (expected .class, .jar or a directory)", path)
		}
		if err != nil {
			return nil, err
		}
		logger().Debugf("loaded %d fields from %s", len(loaded), path)
		fields = append(fields, loaded...)
	}
	return fields, nil
}

func loadDir(ctx context.Context, root string, opts []analysis.Option) ([]*analysis.FieldInfo, error) {
	var fields []*analysis.FieldInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".class") {
			return nil
		}
		loaded, err := FromFile(path, opts...)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fields = append(fields, loaded...)
		return nil
	})
	return fields, err
}

func loadJar(ctx context.Context, path string, opts []analysis.Option) ([]*analysis.FieldInfo, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar: %w", err)
	}
	defer zr.Close()

	var fields []*analysis.FieldInfo
	for _, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasSuffix(entry.Name, ".class") || strings.HasSuffix(entry.Name, "module-info.class") {
			continue
		}
		loaded, err := loadJarEntry(entry, opts)
		if err != nil {
			return nil, fmt.Errorf("%s!%s: %w", path, entry.Name, err)
		}
		fields = append(fields, loaded...)
	}
	return fields, nil
}

func loadJarEntry(entry *zip.File, opts []analysis.Option) ([]*analysis.FieldInfo, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return FromReader(rc, opts...)
}
