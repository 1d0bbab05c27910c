package keeper

import (
	"math/big"
	"strconv"
	"sync"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	"github.com/hashicorp/go-metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// AMMMetrics holds all Prometheus metrics for the amm module
type AMMMetrics struct {
	// Swap metrics
	SwapsTotal *prometheus.CounterVec
	FlashSwaps *prometheus.CounterVec
	SwapVolume *prometheus.CounterVec
	OpLatency  *prometheus.HistogramVec

	// Liquidity metrics
	LiquidityMinted *prometheus.CounterVec
	LiquidityBurned *prometheus.CounterVec
	ProtocolFees    *prometheus.CounterVec
	PairReserves    *prometheus.GaugeVec
	ClaimSupply     *prometheus.GaugeVec

	// Registry
	PairsTotal prometheus.Gauge

	// Safety
	ReentrancyRejections *prometheus.CounterVec
	Rollbacks            *prometheus.CounterVec
}

var (
	ammMetricsOnce sync.Once
	ammMetrics     *AMMMetrics
)

// NewAMMMetrics creates and registers amm metrics (singleton pattern)
func NewAMMMetrics() *AMMMetrics {
	ammMetricsOnce.Do(func() {
		ammMetrics = &AMMMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps by outcome",
				},
				[]string{"pair_id", "status"},
			),
			FlashSwaps: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "flash_swaps_total",
					Help:      "Swaps that invoked a flash swap callee",
				},
				[]string{"pair_id"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pair_id", "denom"},
			),
			OpLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "operation_latency_seconds",
					Help:      "Pair operation latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"op"},
			),
			LiquidityMinted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "liquidity_minted_total",
					Help:      "Claim tokens minted to depositors",
				},
				[]string{"pair_id"},
			),
			LiquidityBurned: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "liquidity_burned_total",
					Help:      "Claim tokens burned on withdrawal",
				},
				[]string{"pair_id"},
			),
			ProtocolFees: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "protocol_fee_minted_total",
					Help:      "Claim tokens minted to the protocol fee recipient",
				},
				[]string{"pair_id"},
			),
			PairReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "pair_reserves",
					Help:      "Current pair reserves",
				},
				[]string{"pair_id", "denom"},
			),
			ClaimSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "claim_supply",
					Help:      "Outstanding claim tokens per pair",
				},
				[]string{"pair_id"},
			),
			PairsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "pairs_total",
					Help:      "Number of pairs created",
				},
			),
			ReentrancyRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "reentrancy_rejections_total",
					Help:      "Operations rejected because the pair was locked",
				},
				[]string{"op"},
			),
			Rollbacks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "pawswap",
					Subsystem: "amm",
					Name:      "rollbacks_total",
					Help:      "Operation scopes discarded, by reason",
				},
				[]string{"op", "reason"},
			),
		}
	})
	return ammMetrics
}

func pairLabel(pairID uint64) string {
	return strconv.FormatUint(pairID, 10)
}

func intToFloat(v math.Int) float64 {
	if v.IsNil() {
		return 0
	}
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}

// recordRollback counts a discarded scope in both the module registry and
// the node telemetry sink.
func (k Keeper) recordRollback(op, reason string) {
	k.metrics.Rollbacks.WithLabelValues(op, reason).Inc()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "rollback"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("op", op),
			telemetry.NewLabel("reason", reason),
		},
	)
}

func recordSwapTelemetry(pairID uint64, flash bool) {
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "swap"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("pair_id", pairLabel(pairID)),
			telemetry.NewLabel("flash", strconv.FormatBool(flash)),
		},
	)
}
