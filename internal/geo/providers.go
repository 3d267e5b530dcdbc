package geo

import (
	"net/http"

	"LazyPanda/internal/model"
)

// IPAPI ip-api.com，status 字段为 "success" 时有效
var IPAPI = ProviderSpec{
	Name:     "ip-api.com",
	Endpoint: "http://ip-api.com/json/%s",
	Accept: func(body map[string]interface{}) bool {
		return str(body, "status") == "success"
	},
	Map: func(body map[string]interface{}) model.LocationRecord {
		return model.LocationRecord{
			Country:   str(body, "country"),
			Region:    str(body, "regionName"),
			City:      str(body, "city"),
			ISP:       str(body, "isp"),
			Org:       str(body, "org"),
			Latitude:  num(body, "lat"),
			Longitude: num(body, "lon"),
			Timezone:  str(body, "timezone"),
		}
	},
}

// IPAPICo ipapi.co，出错时返回 error: true
var IPAPICo = ProviderSpec{
	Name:     "ipapi.co",
	Endpoint: "https://ipapi.co/%s/json/",
	Accept: func(body map[string]interface{}) bool {
		return !truthy(body["error"])
	},
	Map: func(body map[string]interface{}) model.LocationRecord {
		return model.LocationRecord{
			Country:   str(body, "country_name"),
			Region:    str(body, "region"),
			City:      str(body, "city"),
			ISP:       firstStr(body, "org", "isp"),
			Org:       str(body, "org"),
			Latitude:  num(body, "latitude"),
			Longitude: num(body, "longitude"),
			Timezone:  str(body, "timezone"),
		}
	},
}

// IPWhois ipwhois.app，检查 success 与 error 字段
var IPWhois = ProviderSpec{
	Name:     "ipwhois.app",
	Endpoint: "http://ipwhois.app/json/%s",
	Accept: func(body map[string]interface{}) bool {
		if v, ok := body["success"]; ok && !truthy(v) {
			return false
		}
		return !truthy(body["error"])
	},
	Map: func(body map[string]interface{}) model.LocationRecord {
		return model.LocationRecord{
			Country:   str(body, "country"),
			Region:    str(body, "region"),
			City:      str(body, "city"),
			ISP:       str(body, "isp"),
			Org:       str(body, "org"),
			Latitude:  num(body, "latitude"),
			Longitude: num(body, "longitude"),
			Timezone:  str(body, "timezone"),
		}
	},
}

// DefaultSpecs 固定的提供方优先级
var DefaultSpecs = []ProviderSpec{IPAPI, IPAPICo, IPWhois}

// DefaultProviders 按优先级创建HTTP提供方
func DefaultProviders(client *http.Client) []Provider {
	providers := make([]Provider, 0, len(DefaultSpecs))
	for _, spec := range DefaultSpecs {
		providers = append(providers, NewHTTPProvider(spec, client))
	}
	return providers
}
