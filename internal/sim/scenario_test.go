package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/balloonar/internal/loudness"
)

var _ = Describe("a driven session", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.Seed = 21
		cfg.Placement.Separation = 0
	})

	run := func(frames int, levels ...float64) *Result {
		s, err := NewSession(cfg)
		Expect(err).NotTo(HaveOccurred())
		s.AttachAnalyser(loudness.NewScript(levels, false))
		res, err := NewDriver(s, NewManual(60)).Run(context.Background(), frames)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	It("spawns once per loud frame", func() {
		res := run(5, 10, 45, 50, 20, 70)
		Expect(res.Live).To(Equal([]float64{0, 1, 2, 2, 3}))
	})

	It("never exceeds capacity", func() {
		cfg.MinSpeed, cfg.MaxSpeed = 1e-4, 1e-4
		levels := make([]float64, 100)
		for i := range levels {
			levels[i] = 255
		}
		res := run(100, levels...)
		Expect(res.PeakLive).To(Equal(cfg.MaxBalloons))
		Expect(res.Gated).To(Equal(100 - cfg.MaxBalloons))
	})

	It("resumes spawning once a retirement frees capacity", func() {
		cfg.MinSpeed, cfg.MaxSpeed = 0.5, 0.5
		s, err := NewSession(cfg)
		Expect(err).NotTo(HaveOccurred())
		s.AttachAnalyser(loudness.NewScript([]float64{255}, true))

		var reports []TickReport
		err = NewDriver(s, NewManual(60)).RunWithCallback(context.Background(), func(r TickReport) bool {
			reports = append(reports, r)
			return len(reports) < 20
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(20))

		for i := 14; i <= 17; i++ {
			Expect(reports[i].Live).To(Equal(cfg.MaxBalloons))
		}
		Expect(reports[18].Live).To(Equal(cfg.MaxBalloons - 1))
		Expect(reports[19].Spawned).NotTo(BeEmpty())
		Expect(reports[19].Gated).To(BeZero())
	})

	It("retires a balloon after ceil((U - v0) / s) frames", func() {
		cfg.MinSpeed, cfg.MaxSpeed = 0.4, 0.4
		res := run(30, 255)
		want := int(math.Ceil((cfg.UpperBound-cfg.SpawnHeight)/0.4))
		Expect(res.Retired).To(Equal(1))
		Expect(res.Live[want-2]).To(Equal(1.0))
		Expect(res.Live[want-1]).To(Equal(0.0))
	})

	It("does not attempt a spawn at or below the threshold", func() {
		res := run(4, 0, 39.4, 40, 40)
		Expect(res.Attempts).To(BeZero())
		Expect(res.Spawned).To(BeZero())
	})
})
