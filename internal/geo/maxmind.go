package geo

import (
	"context"
	"net"
	"os"

	"LazyPanda/internal/model"

	"github.com/oschwald/geoip2-golang"
	"github.com/pkg/errors"
)

// DefaultCityPaths 常见的 GeoLite2 City 数据库位置
var DefaultCityPaths = []string{
	"/usr/share/GeoIP/GeoLite2-City.mmdb",
	"/usr/local/share/GeoIP/GeoLite2-City.mmdb",
	"/var/lib/GeoIP/GeoLite2-City.mmdb",
}

var DefaultASNPaths = []string{
	"/usr/share/GeoIP/GeoLite2-ASN.mmdb",
	"/usr/local/share/GeoIP/GeoLite2-ASN.mmdb",
	"/var/lib/GeoIP/GeoLite2-ASN.mmdb",
}

// FindDatabase 返回第一个存在的数据库路径
func FindDatabase(paths []string) (string, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// MaxMindProvider 离线 GeoLite2 数据源，排在HTTP提供方之后
type MaxMindProvider struct {
	cityPath string
	asnPath  string
}

func NewMaxMindProvider(cityPath, asnPath string) *MaxMindProvider {
	return &MaxMindProvider{cityPath: cityPath, asnPath: asnPath}
}

func (p *MaxMindProvider) Name() string {
	return "maxmind-geolite2"
}

func (p *MaxMindProvider) Locate(ctx context.Context, ip string) (model.LocationRecord, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		return model.LocationRecord{}, errors.Wrapf(ErrInvalidResponse, "not an ip: %q", ip)
	}

	db, err := geoip2.Open(p.cityPath)
	if err != nil {
		return model.LocationRecord{}, errors.Wrap(ErrUnreachable, err.Error())
	}
	defer db.Close()

	city, err := db.City(addr)
	if err != nil {
		return model.LocationRecord{}, errors.Wrap(ErrInvalidResponse, err.Error())
	}
	if city.Country.IsoCode == "" && city.City.GeoNameID == 0 {
		return model.LocationRecord{}, errors.Wrap(ErrInvalidResponse, "address not in database")
	}

	lat, lon := city.Location.Latitude, city.Location.Longitude
	record := model.LocationRecord{
		Country:   city.Country.Names["en"],
		City:      city.City.Names["en"],
		Latitude:  &lat,
		Longitude: &lon,
		Timezone:  city.Location.TimeZone,
	}
	if len(city.Subdivisions) > 0 {
		record.Region = city.Subdivisions[0].Names["en"]
	}

	if org, ok := p.lookupASN(addr); ok {
		record.ISP = org
		record.Org = org
	}
	return record, nil
}

func (p *MaxMindProvider) lookupASN(addr net.IP) (string, bool) {
	if p.asnPath == "" {
		return "", false
	}
	db, err := geoip2.Open(p.asnPath)
	if err != nil {
		return "", false
	}
	defer db.Close()

	asn, err := db.ASN(addr)
	if err != nil || asn.AutonomousSystemOrganization == "" {
		return "", false
	}
	return asn.AutonomousSystemOrganization, true
}
