package cyclesim_test

import (
	"bytes"
	"log/slog"

	cs "github.com/db47h/cyclesim"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"
)

type hookPosMatcher struct {
	pos *cs.HookPos
}

func hookAt(pos *cs.HookPos) gomock.Matcher { return hookPosMatcher{pos} }

func (m hookPosMatcher) Matches(x any) bool {
	ctx, ok := x.(cs.HookCtx)
	return ok && ctx.Pos == m.pos
}

func (m hookPosMatcher) String() string { return "hook at " + m.pos.Name }

var _ = Describe("Circuit hooks", func() {
	var (
		mockCtrl *gomock.Controller
		hook     *MockHook
		d        *cs.Design
		fail     bool
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hook = NewMockHook(mockCtrl)
		fail = false

		d = cs.NewDesign("top")
		x, _ := d.Top().Wire("x", cs.Bits(4))
		d.Top().Update("w", cs.RW{Writes: sigs(x)}, func(c *cs.Circuit) error {
			if fail {
				return errors.New("boom")
			}
			c.Set(x, c.Get(x)+1)
			return nil
		})
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke hooks around each tick", func() {
		s, err := d.Elaborate()
		Expect(err).ToNot(HaveOccurred())
		c := s.NewCircuit()
		c.AcceptHook(hook)

		gomock.InOrder(
			hook.EXPECT().Func(cs.HookCtx{Domain: c, Pos: cs.HookPosBeforeTick, Item: uint64(0)}),
			hook.EXPECT().Func(cs.HookCtx{Domain: c, Pos: cs.HookPosAfterTick, Item: uint64(1)}),
			hook.EXPECT().Func(cs.HookCtx{Domain: c, Pos: cs.HookPosBeforeTick, Item: uint64(1)}),
			hook.EXPECT().Func(cs.HookCtx{Domain: c, Pos: cs.HookPosAfterTick, Item: uint64(2)}),
		)

		Expect(c.Tick()).To(Succeed())
		Expect(c.Tick()).To(Succeed())
	})

	It("should report failing blocks", func() {
		s, err := d.Elaborate()
		Expect(err).ToNot(HaveOccurred())
		c := s.NewCircuit()
		c.AcceptHook(hook)
		fail = true

		hook.EXPECT().Func(hookAt(cs.HookPosBeforeTick))
		hook.EXPECT().Func(hookAt(cs.HookPosBlockError)).Do(func(ctx cs.HookCtx) {
			Expect(ctx.Item).To(Equal(d.Blocks()[0]))
			Expect(ctx.Detail).To(MatchError(ContainSubstring("block top.w: boom")))
		})

		Expect(c.Tick()).To(MatchError(ContainSubstring("boom")))
		// sticky: no more hooks
		Expect(c.Tick()).To(HaveOccurred())
	})

	It("should log ticks with line traces", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		d.Top().SetLineTrace(func() string { return "trace!" })
		s, err := cs.MakeElaborator().WithLogger(logger).Elaborate(d)
		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("msg=elaborated"))
		Expect(buf.String()).To(ContainSubstring("session=" + s.Session()))

		buf.Reset()
		c := s.NewCircuit()
		Expect(c.Tick()).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("msg=tick"))
		Expect(buf.String()).To(ContainSubstring("cycle=1"))
		Expect(buf.String()).To(ContainSubstring("trace=trace!"))
	})

	It("should log elaboration failures", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		x, _ := d.Top().Signal("x")
		d.Top().Update("w2", cs.RW{Writes: sigs(x)}, nop)
		_, err := cs.MakeElaborator().WithLogger(logger).Elaborate(d)
		Expect(err).To(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("level=ERROR"))
		Expect(buf.String()).To(ContainSubstring("multiple writers for top.x"))
	})
})
