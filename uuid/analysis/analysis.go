// Package analysis decodes the 128 bits of a UUID into a structured,
// version-aware record: version and variant classification, clock sequence,
// node, and the embedded timestamp when one actually exists.
//
// A note on version 2: standard UUID v1 and DCE Security v2 share the same
// bit layout and are distinguished only by convention and context, never by
// the UUID itself.  A value whose version bits say 1 is therefore re-labelled
// version 2 only heuristically (DCE/ISO variant band plus a clock sequence
// in [1,0x3FFF]) and the record carries an explicit PossibleV2 flag instead
// of asserting certainty.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uuidlab/uuidrange/uuid/codec"
	"github.com/uuidlab/uuidrange/uuid/field"
)

// ErrInvalidFormat mirrors field.ErrInvalidFormat for callers that only
// import this package.
var ErrInvalidFormat = field.ErrInvalidFormat

const notApplicable = "N/A"

// istZone is the second fixed rendering zone next to UTC.
var istZone = time.FixedZone("IST", 5*3600+30*60)

// Unix bounds of the calendar years 1..9999.  Decoded instants outside this
// window render as N/A instead of failing the analysis.
const (
	minCalendarUnix = -62135596800
	maxCalendarUnix = 253402300799
)

// Record is the immutable result of analyzing one UUID.
type Record struct {
	UUID               string `json:"uuid"`
	Version            int    `json:"version"`
	VersionDescription string `json:"versionDesc"`
	PossibleV2         bool   `json:"possibleV2,omitempty"`
	Variant            int    `json:"variantCode"`
	VariantDescription string `json:"variant"`

	// Raw structural fields, lower-case hex.
	TimeLow       string `json:"timeLow"`
	TimeMid       string `json:"timeMid"`
	TimeHi        string `json:"timeHi"`
	TimeHiVersion string `json:"timeHiVersion"`
	ClockSeqHi    string `json:"clockSeqHi"`
	ClockSeqLow   string `json:"clockSeqLow"`
	ClockSeq      string `json:"clockSeq"`
	Node          string `json:"node"`

	NodeDescription     string `json:"nodeDesc"`
	ClockSeqDescription string `json:"clockSeqDesc"`

	// Timestamp is the decoded Unix time in seconds; nil when the version
	// carries no timestamp or the value does not fit the calendar.
	Timestamp *float64   `json:"timestamp,omitempty"`
	Time      TimeDetail `json:"time"`

	V1     *V1Details   `json:"v1,omitempty"`
	DCE    *DCEDetails  `json:"dce,omitempty"`
	Hash   *HashDetails `json:"hash,omitempty"`
	Random *V4Details   `json:"random,omitempty"`
}

// TimeDetail renders the decoded instant in UTC and IST (UTC+5:30), both
// machine readable and long form.  All fields read "N/A" for versions whose
// time fields are hash or random bits.
type TimeDetail struct {
	DateTimeUTC string `json:"datetimeUtc"`
	DateTimeIST string `json:"datetimeIst"`
	DateUTC     string `json:"dateUtc"`
	DateIST     string `json:"dateIst"`
	TimeUTC     string `json:"timeUtc"`
	TimeIST     string `json:"timeIst"`
	FriendlyUTC string `json:"friendlyUtc"`
	FriendlyIST string `json:"friendlyIst"`
	ZoneUTC     string `json:"timezoneUtc"`
	ZoneIST     string `json:"timezoneIst"`
}

// V1Details carries version-1 specifics.
type V1Details struct {
	TimestampHex        string `json:"timestampHex"`
	MACAddress          string `json:"macAddress"`
	MACAddressFormatted string `json:"macAddressFormatted"`
	TimePrecision       string `json:"timePrecision"`
	EpochBase           string `json:"epochBase"`
	Predictability      string `json:"predictability"`
}

// DCEDetails carries version-2 (DCE Security) specifics, whether the version
// was library reported or pattern detected.
type DCEDetails struct {
	TimestampHex       string `json:"timestampHex"`
	Domain             string `json:"dceDomain"`
	POSIXInfo          string `json:"posixUidGid"`
	SecurityIdentifier string `json:"securityIdentifier"`
	Heuristic          bool   `json:"heuristic"`
	DetectionNote      string `json:"detectionNote,omitempty"`
}

// HashDetails labels the structural fields of name-based UUIDs (v3 MD5,
// v5 SHA-1) as hash output, never as time/clock/node values.
type HashDetails struct {
	Algorithm  string         `json:"hashAlgorithm"`
	Components HashComponents `json:"hashComponents"`
	Namespace  *NamespaceInfo `json:"namespace,omitempty"`
	Note       string         `json:"note"`
}

// HashComponents are the five structural fields rendered as hash slices.
type HashComponents struct {
	Low32   string `json:"hashLow32bits"`
	Mid16   string `json:"hashMid16bits"`
	Hi12    string `json:"hashHi12bits"`
	Clock14 string `json:"hashClock14bits"`
	Node48  string `json:"hashNode48bits"`
}

// NamespaceInfo describes one of the four well-known v3/v5 namespaces.
type NamespaceInfo struct {
	Name        string `json:"name"`
	UUID        string `json:"uuid"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// V4Details carries version-4 specifics.
type V4Details struct {
	RandomnessSource     string `json:"randomnessSource"`
	Unpredictability     string `json:"unpredictability"`
	CollisionProbability string `json:"collisionProbability"`
	UseCases             string `json:"useCases"`
}

// Option adjusts a single analysis.
type Option func(o *options)

type options struct {
	namespace string
}

// WithNamespace supplies the namespace hint used to enrich version-3
// analysis.  Recognized names: DNS, URL, OID, X500 (case-insensitive).
func WithNamespace(name string) Option {
	return func(o *options) { o.namespace = name }
}

// Analyze decodes uuidStr into a Record or fails with ErrInvalidFormat.
func Analyze(uuidStr string, opts ...Option) (*Record, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	f, err := field.Parse(uuidStr)
	if err != nil {
		return nil, err
	}

	version := f.Version()
	possibleV2 := false
	if version == 1 && likelyV2(f) {
		version = 2
		possibleV2 = true
	}

	rec := &Record{
		UUID:          strings.ToLower(uuidStr),
		Version:       version,
		PossibleV2:    possibleV2,
		Variant:       f.Variant(),
		TimeLow:       fmt.Sprintf("%08x", f.TimeLow),
		TimeMid:       fmt.Sprintf("%04x", f.TimeMid),
		TimeHi:        fmt.Sprintf("%04x", f.TimeHiAndVersion&0x0fff),
		TimeHiVersion: fmt.Sprintf("%04x", f.TimeHiAndVersion),
		ClockSeqHi:    fmt.Sprintf("%02x", f.ClockSeqHi),
		ClockSeqLow:   fmt.Sprintf("%02x", f.ClockSeqLow),
		ClockSeq:      fmt.Sprintf("%04x", f.ClockSeq()),
		Node:          f.NodeHex(),
	}
	rec.VariantDescription = variantDescription(rec.Variant)
	if possibleV2 {
		rec.VersionDescription = "Possible UUID v2 (DCE Security) - version bits say 1 but patterns suggest v2"
	} else {
		rec.VersionDescription = versionDescription(version)
	}
	rec.NodeDescription = nodeDescription(version)
	rec.ClockSeqDescription = clockSeqDescription(version)

	timeBased := version == 1 || (version == 2 && possibleV2)
	if timeBased {
		ts := codec.ToUnixTime(f.Time60())
		rec.Timestamp = &ts
		rec.Time = renderTime(f.Time60())
	} else {
		reason := timeNotApplicableReason(version)
		rec.Time = notApplicableTime(reason)
	}

	switch version {
	case 1:
		rec.V1 = v1Details(f)
	case 2:
		rec.DCE = dceDetails(f, possibleV2)
	case 3:
		rec.Hash = hashDetails(f, "MD5", o.namespace)
	case 4:
		rec.Random = v4Details()
	case 5:
		rec.Hash = hashDetails(f, "SHA-1", o.namespace)
	}
	return rec, nil
}

// likelyV2 implements the pattern heuristic: variant classification 1
// (DCE 1.1 / ISO band, clock_seq_hi 0x40..0x7F) and a 14-bit clock sequence
// in [1,0x3FFF].  It is a guess, not a proof.
func likelyV2(f field.Fields) bool {
	if f.Variant() != 1 {
		return false
	}
	seq := f.ClockSeq()
	return seq >= 0x0001 && seq <= 0x3fff
}

// renderTime converts the 60-bit timestamp into the dual-zone rendering.
// Instants outside the calendar years 1..9999 yield N/A fields instead of
// failing the whole analysis.
func renderTime(ts uint64) TimeDetail {
	sec := int64(ts/codec.TicksPerSecond) - codec.GregorianToUnix
	nsec := int64(ts%codec.TicksPerSecond) * 100
	if sec < minCalendarUnix || sec > maxCalendarUnix {
		return notApplicableTime("Timestamp too large for conversion")
	}
	utc := time.Unix(sec, nsec).UTC()
	ist := utc.In(istZone)
	const friendly = "Monday, January 02, 2006 at 03:04:05 PM"
	return TimeDetail{
		DateTimeUTC: utc.Format("2006-01-02T15:04:05.000000"),
		DateTimeIST: ist.Format("2006-01-02T15:04:05.000000"),
		DateUTC:     utc.Format("2006-01-02"),
		DateIST:     ist.Format("2006-01-02"),
		TimeUTC:     utc.Format("15:04:05.000"),
		TimeIST:     ist.Format("15:04:05.000"),
		FriendlyUTC: utc.Format(friendly),
		FriendlyIST: ist.Format(friendly),
		ZoneUTC:     "UTC",
		ZoneIST:     "IST (UTC+5:30)",
	}
}

func notApplicableTime(reason string) TimeDetail {
	return TimeDetail{
		DateTimeUTC: notApplicable,
		DateTimeIST: notApplicable,
		DateUTC:     notApplicable,
		DateIST:     notApplicable,
		TimeUTC:     notApplicable,
		TimeIST:     notApplicable,
		FriendlyUTC: reason,
		FriendlyIST: reason,
		ZoneUTC:     notApplicable,
		ZoneIST:     notApplicable,
	}
}

func timeNotApplicableReason(version int) string {
	switch version {
	case 3:
		return "N/A - UUID v3 is name-based, not time-based"
	case 4:
		return "N/A - UUID v4 is random, not time-based"
	case 5:
		return "N/A - UUID v5 is name-based, not time-based"
	default:
		return notApplicable
	}
}

func v1Details(f field.Fields) *V1Details {
	node := f.NodeHex()
	var mac strings.Builder
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			mac.WriteByte(':')
		}
		mac.WriteString(node[i : i+2])
	}
	return &V1Details{
		TimestampHex:        f.TimestampHex(),
		MACAddress:          node,
		MACAddressFormatted: mac.String(),
		TimePrecision:       "100 nanoseconds",
		EpochBase:           "October 15, 1582 (Gregorian calendar reform)",
		Predictability:      "Timestamps are predictable; adjacent UUIDs can be enumerated",
	}
}

func dceDetails(f field.Fields, heuristic bool) *DCEDetails {
	d := &DCEDetails{
		TimestampHex:       f.TimestampHex(),
		Domain:             dceDomain(f.ClockSeq()),
		POSIXInfo:          posixInfo(f.Node),
		SecurityIdentifier: fmt.Sprintf("%04x", f.ClockSeq()),
		Heuristic:          heuristic,
	}
	if heuristic {
		d.DetectionNote = "Detected as possible v2 from DCE Security patterns despite version bit 1"
	}
	return d
}

// dceDomain maps the clock sequence into the source's DCE domain bands.
func dceDomain(clockSeq uint16) string {
	switch {
	case clockSeq < 0x1000:
		return "Local DCE Security Domain"
	case clockSeq < 0x2000:
		return "Network DCE Security Domain"
	case clockSeq < 0x3000:
		return "Distributed DCE Security Domain"
	case clockSeq < 0x4000:
		return "Enterprise DCE Security Domain"
	default:
		return "Custom DCE Security Domain"
	}
}

// posixInfo bit-slices the 48-bit node into 4-bit domain, 16-bit uid,
// 16-bit gid and 12 bits of padding.
func posixInfo(node uint64) string {
	domain := (node >> 44) & 0x0f
	uid := (node >> 28) & 0xffff
	gid := (node >> 12) & 0xffff
	if uid == 0 && gid == 0 {
		return "No POSIX UID/GID information"
	}
	return fmt.Sprintf("Domain: %d, UID: %d, GID: %d", domain, uid, gid)
}

func hashDetails(f field.Fields, algorithm, namespace string) *HashDetails {
	d := &HashDetails{
		Algorithm: algorithm,
		Components: HashComponents{
			Low32:   fmt.Sprintf("%08x", f.TimeLow),
			Mid16:   fmt.Sprintf("%04x", f.TimeMid),
			Hi12:    fmt.Sprintf("%04x", f.TimeHiAndVersion&0x0fff),
			Clock14: fmt.Sprintf("%04x", f.ClockSeq()),
			Node48:  f.NodeHex(),
		},
		Note: "All structural fields are " + algorithm + " hash output, not timestamp, clock sequence or MAC address",
	}
	if namespace != "" {
		d.Namespace = LookupNamespace(namespace)
		if d.Namespace == nil {
			d.Namespace = &NamespaceInfo{Name: namespace, Description: "Custom or unknown namespace"}
		}
	}
	return d
}

func v4Details() *V4Details {
	return &V4Details{
		RandomnessSource:     "Cryptographically secure random number generator",
		Unpredictability:     "Maximum (completely random)",
		CollisionProbability: "Extremely low (statistically negligible)",
		UseCases:             "Session IDs, Tokens, Unique Keys, Temporary Identifiers",
	}
}

// LookupNamespace resolves one of the four well-known namespaces by name,
// returning nil when unrecognized.
func LookupNamespace(name string) *NamespaceInfo {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DNS":
		return &NamespaceInfo{Name: "DNS", UUID: uuid.NameSpaceDNS.String(),
			Description: "Domain Name System (DNS) - for domain names", Example: "example.com"}
	case "URL":
		return &NamespaceInfo{Name: "URL", UUID: uuid.NameSpaceURL.String(),
			Description: "Uniform Resource Locator (URL) - for URLs", Example: "https://example.com/page"}
	case "OID":
		return &NamespaceInfo{Name: "OID", UUID: uuid.NameSpaceOID.String(),
			Description: "ISO Object Identifier (OID) - for ISO OIDs", Example: "1.3.6.1.4.1"}
	case "X500":
		return &NamespaceInfo{Name: "X500", UUID: uuid.NameSpaceX500.String(),
			Description: "X.500 Distinguished Name (DN) - for X.500 DNs", Example: "CN=John Doe, OU=Engineering, O=Company"}
	}
	return nil
}

func versionDescription(version int) string {
	switch version {
	case 1:
		return "Time-based UUID using timestamp and MAC address"
	case 2:
		return "DCE Security UUID (time-based + POSIX UID/GID)"
	case 3:
		return "Name-based UUID using MD5 hash"
	case 4:
		return "Random UUID (cryptographically secure)"
	case 5:
		return "Name-based UUID using SHA-1 hash"
	default:
		return fmt.Sprintf("Unknown UUID version %d", version)
	}
}

func variantDescription(variant int) string {
	switch variant {
	case 0:
		return "Reserved (NCS backward compatibility)"
	case 1:
		return "DCE 1.1, ISO/IEC 11578:1996"
	case 2:
		return "Microsoft GUID"
	default:
		return "Reserved for future definition"
	}
}

func nodeDescription(version int) string {
	switch version {
	case 1:
		return "MAC address of the generating computer"
	case 2:
		return "MAC address with POSIX UID/GID"
	case 3:
		return "MD5 hash output (48 bits) - part of the hash result, not a MAC address"
	case 4:
		return "Randomly generated (not a real MAC address)"
	case 5:
		return "SHA-1 hash output (48 bits) - part of the hash result, not a MAC address"
	default:
		return "Unknown node type"
	}
}

func clockSeqDescription(version int) string {
	switch version {
	case 1:
		return "Random or pseudo-random number to ensure uniqueness"
	case 2:
		return "Security domain identifier"
	case 3:
		return "MD5 hash output (14 bits) - part of the hash result, not a clock sequence"
	case 4:
		return "Randomly generated (not used for timing)"
	case 5:
		return "SHA-1 hash output (14 bits) - part of the hash result, not a clock sequence"
	default:
		return "Unknown clock sequence type"
	}
}
