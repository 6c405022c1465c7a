package passforge

import "errors"

var (
	// ErrInvalidArgument reports a caller mistake detected before any
	// I/O: a bad range, chunk size, digest name, or missing path.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDictionaryUnavailable reports that the configured wordlist
	// could not be opened or read. I/O failures are never retried.
	ErrDictionaryUnavailable = errors.New("dictionary unavailable")
	// ErrGenerationFailed reports that password generation gave up:
	// the entropy source failed, or no dictionary line of the
	// requested length was found within the retry budget.
	ErrGenerationFailed = errors.New("password generation failed")
	// ErrInsecureEntropy reports that only the non-cryptographic
	// fallback entropy tier is available and the configuration forbids
	// running on it.
	ErrInsecureEntropy = errors.New("insecure entropy source")
	// ErrTokensDisabled reports a token operation on an engine built
	// without token support.
	ErrTokensDisabled = errors.New("token issuance disabled")
	// ErrEngineClosed reports use of an engine after Close.
	ErrEngineClosed = errors.New("engine closed")
)
