package store

import (
	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"
)

// Persister 保存最终报告：JSON 文件，以及可选的历史库
type Persister struct {
	reportDir string
	history   *History
	logger    *utils.Logger
}

func NewPersister(reportDir string, history *History) *Persister {
	return &Persister{
		reportDir: reportDir,
		history:   history,
		logger:    utils.NewLogger("persist"),
	}
}

// Persist 失败不影响内存中的报告；成功时设置 PersistedPath
func (p *Persister) Persist(r *model.Report) error {
	path, err := WriteJSON(p.reportDir, r)
	if err != nil {
		return err
	}
	r.PersistedPath = path

	if p.history != nil {
		if _, err := p.history.SaveRun(r); err != nil {
			p.logger.Warn("保存历史记录失败: %v", err)
		}
	}
	return nil
}
