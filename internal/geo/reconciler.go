package geo

import (
	"context"
	"time"

	"LazyPanda/internal/model"
	"LazyPanda/internal/utils"
)

const locateFailed = "could not locate IP"

// Reconciler 按固定优先级依次查询提供方，第一个有效响应即为结果
type Reconciler struct {
	providers []Provider
	timeout   time.Duration
	logger    *utils.Logger
}

func NewReconciler(timeout time.Duration, providers ...Provider) *Reconciler {
	return &Reconciler{
		providers: providers,
		timeout:   timeout,
		logger:    utils.NewLogger("geo"),
	}
}

// Providers 返回提供方名称，按查询顺序
func (r *Reconciler) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for _, p := range r.providers {
		names = append(names, p.Name())
	}
	return names
}

// Locate 不会返回部分填充的记录：要么是某一个提供方的完整映射，要么是错误
func (r *Reconciler) Locate(ctx context.Context, ip string) model.LocationResult {
	result := model.LocationResult{
		Attempted: true,
		IP:        ip,
		Attempts:  []model.ProviderAttempt{},
	}

	for _, p := range r.providers {
		record, err := r.locateOne(ctx, p, ip)
		if err != nil {
			r.logger.Debug("%s 查询 %s 失败: %v", p.Name(), ip, err)
			result.Attempts = append(result.Attempts, model.ProviderAttempt{
				Provider:  p.Name(),
				Error:     err.Error(),
				ErrorKind: classify(err),
			})
			continue
		}

		r.logger.Debug("%s 定位 %s 成功", p.Name(), ip)
		result.Provider = p.Name()
		result.Record = &record
		return result
	}

	result.Error = locateFailed
	result.ErrorKind = model.ErrProviderUnreachable
	if n := len(result.Attempts); n > 0 {
		result.ErrorKind = result.Attempts[n-1].ErrorKind
	}
	return result
}

func (r *Reconciler) locateOne(ctx context.Context, p Provider, ip string) (model.LocationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return p.Locate(ctx, ip)
}
