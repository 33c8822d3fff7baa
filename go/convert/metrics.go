package convert

import "github.com/prometheus/client_golang/prometheus"

var (
	chunksConverted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "chunks_total",
		Help:      "Chunks processed, by result.",
	}, []string{"result"})
	blocksUnmapped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "blocks_unmapped_total",
		Help:      "Blocks whose stored id had no mapping.",
	})
	blocksDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "blocks_dropped_total",
		Help:      "Blocks the target couldn't store, written as air.",
	})
)

func init() {
	prometheus.MustRegister(chunksConverted, blocksUnmapped, blocksDropped)
}
