package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"LazyPanda/internal/model"

	"github.com/pkg/errors"
)

var (
	ErrUnreachable     = errors.New("provider unreachable")
	ErrInvalidResponse = errors.New("invalid provider response")
)

const maxBodySize = 1 << 20

// Provider 一个地理位置数据源
type Provider interface {
	Name() string
	Locate(ctx context.Context, ip string) (model.LocationRecord, error)
}

// ProviderSpec HTTP提供方的配置：地址模板、成功判定和字段映射
type ProviderSpec struct {
	Name     string
	Endpoint string // 含一个 %s 占位符
	Accept   func(body map[string]interface{}) bool
	Map      func(body map[string]interface{}) model.LocationRecord
}

type HTTPProvider struct {
	spec       ProviderSpec
	httpClient *http.Client
}

func NewHTTPProvider(spec ProviderSpec, client *http.Client) *HTTPProvider {
	return &HTTPProvider{spec: spec, httpClient: client}
}

// NewHTTPClient 地理位置请求使用的HTTP客户端
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}
}

func (p *HTTPProvider) Name() string {
	return p.spec.Name
}

func (p *HTTPProvider) Locate(ctx context.Context, ip string) (model.LocationRecord, error) {
	url := fmt.Sprintf(p.spec.Endpoint, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.LocationRecord{}, errors.Wrap(ErrUnreachable, err.Error())
	}
	req.Header.Set("User-Agent", "LazyPanda/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.LocationRecord{}, errors.Wrap(ErrUnreachable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.LocationRecord{}, errors.Wrapf(ErrInvalidResponse, "status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.LocationRecord{}, errors.Wrap(ErrUnreachable, err.Error())
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return model.LocationRecord{}, errors.Wrapf(ErrInvalidResponse, "decode json: %v", err)
	}

	if !p.spec.Accept(data) {
		return model.LocationRecord{}, errors.Wrap(ErrInvalidResponse, "lookup reported failure")
	}

	return p.spec.Map(data), nil
}

// classify 提供方错误映射为报告错误类型
func classify(err error) model.ErrorKind {
	if errors.Is(err, ErrInvalidResponse) {
		return model.ErrProviderInvalidResponse
	}
	return model.ErrProviderUnreachable
}

func str(body map[string]interface{}, key string) string {
	switch v := body[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func firstStr(body map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := str(body, key); s != "" {
			return s
		}
	}
	return ""
}

func num(body map[string]interface{}, key string) *float64 {
	switch v := body[key].(type) {
	case float64:
		return &v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// truthy 按JSON语义判断字段是否为真
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
