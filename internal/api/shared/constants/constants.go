package constants

const (
	MAX_PAGE_SIZE            = 100
	DEFAULT_OFFSET           = uint64(0)
	DEFAULT_VIEW_LIMIT       = 10
	DEFAULT_COLLECTORS_LIMIT = 20
)
