package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type namedHandler struct {
	name string
}

func (h namedHandler) Name() string { return h.name }

func (h namedHandler) Handle(_ Event) error { return nil }

var _ = Describe("Hooks", func() {
	var (
		mockCtrl *gomock.Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke all the hooks", func() {
		base := NewHookableBase()
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		base.AcceptHook(hook1)
		base.AcceptHook(hook2)

		ctx := HookCtx{Domain: base, Pos: HookPosBeforeEvent}
		hook1.EXPECT().Func(ctx)
		hook2.EXPECT().Func(ctx)

		base.InvokeHook(ctx)
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should log events before they are handled", func() {
		buf := new(bytes.Buffer)
		logger := NewEventLogger(log.New(buf, "", 0))
		evt := NewEventBase(1.5, namedHandler{name: "Counter"})

		logger.Func(HookCtx{Pos: HookPosAfterEvent, Item: evt})
		Expect(buf.String()).To(BeEmpty())

		logger.Func(HookCtx{Pos: HookPosBeforeEvent, Item: evt})
		Expect(buf.String()).To(ContainSubstring("1.5000000000"))
		Expect(buf.String()).To(ContainSubstring("-> Counter"))
	})
})
