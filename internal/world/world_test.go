package world_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/engines"
	"github.com/colmak/collsim/internal/geom"
	"github.com/colmak/collsim/internal/world"
)

// sphereBody builds a built, framed unit-sphere model at pos.
func sphereBody(name string, pos geom.Vec3, radius float64) *collide.Model {
	m := collide.NewModelWith(engines.NewSweep(), collide.Tolerances{Envelope: 0.05, SafeMargin: 0.01})
	m.AddSphere(radius, geom.Vec3{})
	Expect(m.BuildModel()).To(Succeed())

	f := collide.NewFrame(name)
	f.MoveTo(pos)
	m.SetContactable(f)
	return m
}

var _ = Describe("World", func() {
	var w *world.World

	BeforeEach(func() {
		w = world.New(4)
	})

	Describe("Scan", func() {
		It("pairs overlapping models and skips distant ones", func() {
			w.Register(sphereBody("a", geom.Vec3{}, 1))
			w.Register(sphereBody("b", geom.Vec3{X: 1.5}, 1))
			w.Register(sphereBody("c", geom.Vec3{X: 100}, 1))

			pairs, err := w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(ConsistOf(world.Pair{A: 0, B: 1}))
		})

		It("returns no pairs for an empty world", func() {
			pairs, err := w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(BeEmpty())
		})

		It("honors the family gate in both directions", func() {
			a := sphereBody("a", geom.Vec3{}, 1)
			b := sphereBody("b", geom.Vec3{X: 0.5}, 1)
			a.SetFamily(1)
			b.SetFamily(2)
			b.SetFamilyMaskNoCollisionWithFamily(1)

			w.Register(a)
			w.Register(b)

			pairs, err := w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(BeEmpty(), "one-sided mask block must gate the pair")
		})

		It("stops on context cancellation", func() {
			for i := 0; i < 64; i++ {
				w.Register(sphereBody("b", geom.Vec3{X: float64(i)}, 1))
			}
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := w.Scan(ctx)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("fails when a registered model has no body", func() {
			m := collide.NewModelWith(engines.NewSweep(), collide.Tolerances{})
			m.AddSphere(1, geom.Vec3{})
			Expect(m.BuildModel()).To(Succeed())
			w.Register(m)

			_, err := w.Scan(context.Background())
			Expect(err).To(MatchError(collide.ErrNoContactable))
		})
	})

	Describe("registration lifecycle", func() {
		It("snapshots the gate at registration time", func() {
			a := sphereBody("a", geom.Vec3{}, 1)
			b := sphereBody("b", geom.Vec3{X: 0.5}, 1)
			a.SetFamily(3)
			b.SetFamily(4)

			w.Register(a)
			idB := w.Register(b)

			// Mutations after Register are inert until Resync.
			b.SetFamilyMaskNoCollisionWithFamily(3)

			pairs, err := w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(HaveLen(1), "pre-Resync mask change must not gate the pair")

			Expect(w.Resync(idB)).To(Succeed())
			pairs, err = w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(BeEmpty())
		})

		It("rejects Resync of unknown ids", func() {
			Expect(w.Resync(0)).NotTo(Succeed())
			Expect(w.Resync(-1)).NotTo(Succeed())
		})

		It("exposes registered models by id", func() {
			m := sphereBody("a", geom.Vec3{}, 1)
			id := w.Register(m)
			Expect(w.NumModels()).To(Equal(1))
			Expect(w.ModelAt(id)).To(BeIdenticalTo(m))
		})
	})

	Describe("moving bodies", func() {
		It("re-pairs after bodies move between scans", func() {
			a := sphereBody("a", geom.Vec3{}, 1)
			b := sphereBody("b", geom.Vec3{X: 50}, 1)
			w.Register(a)
			w.Register(b)

			pairs, err := w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(BeEmpty())

			b.Contactable().(*collide.Frame).MoveTo(geom.Vec3{X: 1})
			pairs, err = w.Scan(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pairs).To(ConsistOf(world.Pair{A: 0, B: 1}))
		})
	})
})
