package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceJWT    RequestSource = "JWT"
	RequestSourceAPIKey RequestSource = "API_KEY"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixEventTypes    CachePrefix = "ETYPES_"
	CachePrefixTypeResolve   CachePrefix = "ETYPE_RESOLVE_"
	CachePrefixEventQR       CachePrefix = "EVENT_QR_"
	CachePrefixRecommendFeed CachePrefix = "RECO_"
	CachePrefixKnownUser     CachePrefix = "KNOWN_USER_"
)

const (
	// AttendanceStream is the redis stream carrying confirmed-attendance items.
	AttendanceStream = "agora:attendance"
	// AttendanceGroup is the consumer group ledger workers join.
	AttendanceGroup = "ledger-workers"
)
