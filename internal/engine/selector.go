package engine

// Strategy is the transfer path chosen for one submission
type Strategy string

const (
	// StrategyDirect uploads files concurrently, one request (or one
	// chunked sequence) per file.
	StrategyDirect Strategy = "direct"

	// StrategyBulk groups files into sequential server-side batch jobs.
	StrategyBulk Strategy = "bulk"
)

// selectStrategy picks the transfer path for a submission of `count` files.
// Pure partitioning decision, made once per submission.
func selectStrategy(count, directThreshold int) Strategy {
	if count <= directThreshold {
		return StrategyDirect
	}
	return StrategyBulk
}

// needsChunking reports whether a file of `size` bytes must use the chunked
// sub-protocol. Files at or above the threshold are always split.
func needsChunking(size, chunkThreshold int64) bool {
	return size >= chunkThreshold
}
