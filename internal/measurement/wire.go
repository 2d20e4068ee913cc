package measurement

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// wireField maps one Payload member to its wire key. Exactly one accessor is set.
type wireField struct {
	key     string
	scalar  func(*Payload) *string
	strings func(*Payload) *OrderedMap[string]
	numbers func(*Payload) *OrderedMap[float64]
}

func scalar(key string, get func(*Payload) *string) wireField {
	return wireField{key: key, scalar: get}
}

func stringMap(key string, get func(*Payload) *OrderedMap[string]) wireField {
	return wireField{key: key, strings: get}
}

func numberMap(key string, get func(*Payload) *OrderedMap[float64]) wireField {
	return wireField{key: key, numbers: get}
}

// wireFields is the protocol field table, in emission order
var wireFields = []wireField{
	scalar("v", func(p *Payload) *string { return p.ProtocolVersion }),
	scalar("tid", func(p *Payload) *string { return p.TrackingID }),
	scalar("gtm", func(p *Payload) *string { return p.GTMHash }),
	scalar("_p", func(p *Payload) *string { return p.RandomNonce }),
	scalar("sr", func(p *Payload) *string { return p.ScreenResolution }),
	scalar("ul", func(p *Payload) *string { return p.UserLanguage }),
	scalar("dh", func(p *Payload) *string { return p.DocumentHostname }),
	scalar("cid", func(p *Payload) *string { return p.ClientID }),
	scalar("_s", func(p *Payload) *string { return p.HitCounter }),
	scalar("richsstsse", func(p *Payload) *string { return p.Richsstsse }),
	scalar("uaa", func(p *Payload) *string { return p.UserAgentArchitecture }),
	scalar("uab", func(p *Payload) *string { return p.UserAgentBitness }),
	scalar("uafvl", func(p *Payload) *string { return p.UserAgentFullVersionList }),
	scalar("uamb", func(p *Payload) *string { return p.UserAgentMobile }),
	scalar("uam", func(p *Payload) *string { return p.UserAgentModel }),
	scalar("uap", func(p *Payload) *string { return p.UserAgentPlatform }),
	scalar("uapv", func(p *Payload) *string { return p.UserAgentPlatformVersion }),
	scalar("uaw", func(p *Payload) *string { return p.UserAgentWow64 }),
	scalar("dl", func(p *Payload) *string { return p.DocumentLocation }),
	scalar("dt", func(p *Payload) *string { return p.DocumentTitle }),
	scalar("dr", func(p *Payload) *string { return p.DocumentReferrer }),
	scalar("_z", func(p *Payload) *string { return p.Z }),
	scalar("_eu", func(p *Payload) *string { return p.EventUsage }),
	scalar("edid", func(p *Payload) *string { return p.EventDebugID }),
	scalar("_dbg", func(p *Payload) *string { return p.IsDebug }),
	scalar("ir", func(p *Payload) *string { return p.IgnoreReferrer }),
	scalar("tt", func(p *Payload) *string { return p.TrafficType }),
	scalar("_glv", func(p *Payload) *string { return p.IsLinkerValid }),
	scalar("cm", func(p *Payload) *string { return p.CampaignMedium }),
	scalar("cs", func(p *Payload) *string { return p.CampaignSource }),
	scalar("cn", func(p *Payload) *string { return p.CampaignName }),
	scalar("cc", func(p *Payload) *string { return p.CampaignContent }),
	scalar("ck", func(p *Payload) *string { return p.CampaignTerm }),
	scalar("ccf", func(p *Payload) *string { return p.CampaignFormat }),
	scalar("cmt", func(p *Payload) *string { return p.CampaignTactic }),
	scalar("_rnd", func(p *Payload) *string { return p.GclidDeduper }),
	scalar("en", func(p *Payload) *string { return p.EventName }),
	scalar("_et", func(p *Payload) *string { return p.EngagementTime }),
	stringMap("ep", func(p *Payload) *OrderedMap[string] { return p.EventStrings }),
	numberMap("epn", func(p *Payload) *OrderedMap[float64] { return p.EventNumbers }),
	scalar("_c", func(p *Payload) *string { return p.IsConversion }),
	scalar("_ee", func(p *Payload) *string { return p.ExternalEvent }),
	scalar("uid", func(p *Payload) *string { return p.UserID }),
	scalar("_fid", func(p *Payload) *string { return p.FirebaseID }),
	scalar("sid", func(p *Payload) *string { return p.SessionID }),
	scalar("sct", func(p *Payload) *string { return p.SessionCount }),
	scalar("seg", func(p *Payload) *string { return p.SessionEngagement }),
	stringMap("up", func(p *Payload) *OrderedMap[string] { return p.UserStrings }),
	numberMap("upn", func(p *Payload) *OrderedMap[float64] { return p.UserNumbers }),
	scalar("_fv", func(p *Payload) *string { return p.FirstVisit }),
	scalar("_ss", func(p *Payload) *string { return p.SessionStart }),
	scalar("_fplc", func(p *Payload) *string { return p.LinkerCookie }),
	scalar("_nsi", func(p *Payload) *string { return p.NewSessionID }),
	scalar("_gdid", func(p *Payload) *string { return p.DeveloperID }),
	scalar("_uc", func(p *Payload) *string { return p.UserCountry }),
	scalar("gcs", func(p *Payload) *string { return p.ConsentStatus }),
	scalar("gcu", func(p *Payload) *string { return p.ConsentUpdate }),
	scalar("gcut", func(p *Payload) *string { return p.ConsentUpdateType }),
	scalar("gcd", func(p *Payload) *string { return p.ConsentDetail }),
	scalar("npa", func(p *Payload) *string { return p.NonPersonalized }),
	scalar("dma_cps", func(p *Payload) *string { return p.ServiceConsent }),
	scalar("dma", func(p *Payload) *string { return p.RegionConsent }),
	scalar("pscdl", func(p *Payload) *string { return p.CookieDeprecation }),
	scalar("tag_exp", func(p *Payload) *string { return p.TagExperiments }),
	scalar("are", func(p *Payload) *string { return p.Are }),
	scalar("pae", func(p *Payload) *string { return p.Pae }),
	scalar("frm", func(p *Payload) *string { return p.Frm }),
	scalar("ec_mode", func(p *Payload) *string { return p.ECMode }),
	scalar("tfd", func(p *Payload) *string { return p.Tfd }),
	scalar("cu", func(p *Payload) *string { return p.CurrencyCode }),
	scalar("_uip", func(p *Payload) *string { return p.IPOverride }),
}

// nestedPrefixes are the map parameters rewritten to dotted keys, longest first
var nestedPrefixes = []string{"epn", "upn", "ep", "up"}

// Encode serializes p into the collector query string: scalar fields and
// property maps in field-table order with dotted map keys, then the pr{n} item
// parameters.
func Encode(p *Payload) (string, error) {
	var q queryWriter
	for _, f := range wireFields {
		switch {
		case f.scalar != nil:
			if v := f.scalar(p); v != nil {
				q.add(f.key, *v)
			}
		case f.strings != nil:
			f.strings(p).Each(func(k, v string) {
				q.add(f.key+"["+url.QueryEscape(k)+"]", v)
			})
		case f.numbers != nil:
			var err error
			f.numbers(p).Each(func(k string, v float64) {
				if err != nil {
					return
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					err = &EncodingError{Field: f.key + "." + k, Err: fmt.Errorf("non-finite number %v", v)}
					return
				}
				q.add(f.key+"["+url.QueryEscape(k)+"]", strconv.FormatFloat(v, 'f', -1, 64))
			})
			if err != nil {
				return "", err
			}
		}
	}

	query := RewriteNestedKeys(q.String())

	items := EncodeItems(p.Products)
	if len(items) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.WriteString(query)
	for _, item := range items {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(item.Key)
		b.WriteByte('=')
		b.WriteString(item.Value)
	}
	return b.String(), nil
}

// RewriteNestedKeys turns bracketed map keys (ep[k], epn[k], up[k], upn[k])
// into dotted keys (ep.k, …), leaving all other text untouched. Applying it to
// its own output is a no-op.
func RewriteNestedKeys(qs string) string {
	for {
		next := rewriteNestedKeysOnce(qs)
		if next == qs {
			return next
		}
		qs = next
	}
}

func rewriteNestedKeysOnce(qs string) string {
	if !strings.Contains(qs, "[") {
		return qs
	}

	var b strings.Builder
	b.Grow(len(qs))

	for i := 0; i < len(qs); {
		prefix, ok := nestedPrefixAt(qs, i)
		if !ok {
			b.WriteByte(qs[i])
			i++
			continue
		}

		b.WriteString(prefix)
		b.WriteByte('.')
		i += len(prefix) + 1

		end := strings.IndexByte(qs[i:], ']')
		if end < 0 {
			b.WriteString(qs[i:])
			break
		}
		b.WriteString(qs[i : i+end])
		i += end + 1
	}
	return b.String()
}

func nestedPrefixAt(s string, i int) (string, bool) {
	for _, prefix := range nestedPrefixes {
		if strings.HasPrefix(s[i:], prefix+"[") {
			return prefix, true
		}
	}
	return "", false
}

// queryWriter accumulates key=value pairs. Keys are written as given, values
// are query-escaped.
type queryWriter struct {
	b strings.Builder
}

func (q *queryWriter) add(key, value string) {
	if value == "" {
		return
	}
	if q.b.Len() > 0 {
		q.b.WriteByte('&')
	}
	q.b.WriteString(key)
	q.b.WriteByte('=')
	q.b.WriteString(url.QueryEscape(value))
}

func (q *queryWriter) String() string {
	return q.b.String()
}
