package sim_test

import (
	"context"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/physics"
	"github.com/san-kum/oscillab/internal/sim"
)

var _ = Describe("Record", func() {
	quiet := func(mode dynamo.Mode) sim.Options {
		opts := sim.DefaultOptions()
		opts.Mode = mode
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return opts
	}

	It("records analytic samples at the frame period", func() {
		rec, err := sim.Record(context.Background(), sim.Run{
			Options:  quiet(dynamo.ModeSpring),
			Params:   dynamo.DefaultParams(),
			Duration: 2,
			FPS:      50,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Frames).NotTo(BeEmpty())
		Expect(rec.Driver.State()).To(Equal(sim.Paused))

		last := rec.Frames[len(rec.Frames)-1]
		Expect(last.Time).To(BeNumerically(">=", 2))
		Expect(last.Position).To(BeNumerically("~", physics.Position(dynamo.ModeSpring, rec.Params, last.Time), 1e-12))

		samples := rec.Samples(dynamo.SignalVelocity)
		Expect(samples).To(HaveLen(len(rec.Frames)))
		Expect(samples[0].Value).To(Equal(rec.Frames[0].Velocity))
	})

	It("rejects invalid parameters", func() {
		p := dynamo.DefaultParams()
		p.Gravity = 50
		_, err := sim.Record(context.Background(), sim.Run{
			Options:  quiet(dynamo.ModePendulum),
			Params:   p,
			Duration: 1,
			FPS:      30,
		})
		Expect(err).To(MatchError(dynamo.ErrCannotStart))
	})

	It("rejects a non-positive duration", func() {
		_, err := sim.Record(context.Background(), sim.Run{Options: quiet(dynamo.ModeSpring), Params: dynamo.DefaultParams(), FPS: 30})
		Expect(err).To(HaveOccurred())
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.Record(ctx, sim.Run{Options: quiet(dynamo.ModeSpring), Params: dynamo.DefaultParams(), Duration: 5, FPS: 30})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("runs both modes concurrently", func() {
		recs, err := sim.RecordAll(context.Background(), []sim.Run{
			{Options: quiet(dynamo.ModeSpring), Params: dynamo.DefaultParams(), Duration: 1, FPS: 60},
			{Options: quiet(dynamo.ModePendulum), Params: dynamo.DefaultParams(), Duration: 1, FPS: 60},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
		Expect(recs[0].Mode).To(Equal(dynamo.ModeSpring))
		Expect(recs[1].Mode).To(Equal(dynamo.ModePendulum))
	})
})
