package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"LazyPanda/internal/model"

	"github.com/pkg/errors"
)

var unsafeChars = strings.NewReplacer(".", "_", ":", "_", "/", "_", `\`, "_")

// ReportFilename 目标中的 . 和 : 替换为 _，后接时间戳
func ReportFilename(target string, t time.Time) string {
	return unsafeChars.Replace(target) + "_" + t.Format("20060102_150405") + ".json"
}

// WriteJSON 将报告写入目录，返回文件路径
func WriteJSON(dir string, r *model.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create reports directory")
	}

	path := filepath.Join(dir, ReportFilename(r.Target, r.StartedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "failed to create report file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", errors.Wrap(err, "failed to write report")
	}
	return path, nil
}
