package errs

const (
	BizCodeInvalidParams = 1001

	BizCodeTransport        = 2001
	BizCodeNotFound         = 2002
	BizCodeIO               = 2003
	BizCodeFileExists       = 2004
	BizCodeChecksumMismatch = 2005
)

// process exit codes, 1 is left for unclassified failures
const (
	ExitOK               = 0
	ExitUnexpected       = 1
	ExitInvalidParams    = 2
	ExitTransport        = 3
	ExitNotFound         = 4
	ExitIO               = 5
	ExitFileExists       = 6
	ExitChecksumMismatch = 7
)
