package sim_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/lib/dot"
	"dotpaccel/src/sim"
)

var _ = Describe("Simulated accelerator", func() {
	a := dot.Vector{1, -2, 3, -4, 5, -6, 7, -8}
	b := dot.Vector{8, 7, -6, -5, 4, 3, -2, -1}

	load := func(s *sim.Accelerator) {
		for i := 0; i < dot.Len; i++ {
			s.WriteRegister(dotp.OperandA(i), uint32(a[i]))
			s.WriteRegister(dotp.OperandB(i), uint32(b[i]))
		}
	}

	It("starts idle with done clear", func() {
		s := sim.New(sim.Config{})
		Expect(s.State()).To(Equal(sim.Idle))
		Expect(s.Peek(dotp.Done)).To(BeZero())
		s.WaitCycles(100)
		Expect(s.State()).To(Equal(sim.Idle))
		Expect(s.Starts()).To(BeZero())
	})

	It("raises done after the configured latency", func() {
		s := sim.New(sim.Config{Latency: 3})
		load(s)
		s.WriteRegister(dotp.Start, 1) // captures on this cycle
		Expect(s.State()).To(Equal(sim.Computing))
		s.WriteRegister(dotp.Start, 0) // busy 1
		Expect(s.Peek(dotp.Done)).To(BeZero())
		s.WaitCycles(1) // busy 2
		Expect(s.Peek(dotp.Done)).To(BeZero())
		s.WaitCycles(1) // busy 3
		Expect(s.Peek(dotp.Done)).To(Equal(uint32(1)))
		Expect(s.State()).To(Equal(sim.Finished))

		lo, hi := s.Peek(dotp.ResultLo), s.Peek(dotp.ResultHi)
		Expect(lo).To(Equal(uint32(0xFFFFFFF8)))
		Expect(hi).To(Equal(uint32(0xFFFFFFFF)))
		Expect(dotp.AssembleResult(lo, hi)).To(Equal(int64(-8)))
	})

	It("keeps done and the result until the next start", func() {
		s := sim.New(sim.Config{Latency: 2})
		load(s)
		s.WriteRegister(dotp.Start, 1)
		s.WriteRegister(dotp.Start, 0)
		s.WaitCycles(10)
		for i := 0; i < 3; i++ {
			Expect(s.ReadRegister(dotp.Done)).To(Equal(uint32(1)))
		}
		Expect(s.Starts()).To(Equal(1))
	})

	It("computes again when start is left high through done", func() {
		s := sim.New(sim.Config{Latency: 4})
		load(s)
		s.WriteRegister(dotp.Start, 1)
		s.WaitCycles(3 * 4)
		Expect(s.Starts()).To(BeNumerically(">=", 2))

		s.WriteRegister(dotp.Start, 0)
		s.WaitCycles(10)
		settled := s.Starts()
		s.WaitCycles(50)
		Expect(s.Starts()).To(Equal(settled))
		Expect(s.State()).To(Equal(sim.Finished))
	})

	It("clears a one-shot done once it has been read", func() {
		s := sim.New(sim.Config{Latency: 1, OneShotDone: true})
		load(s)
		s.WriteRegister(dotp.Start, 1)
		s.WriteRegister(dotp.Start, 0)
		Expect(s.ReadRegister(dotp.Done)).To(Equal(uint32(1)))
		Expect(s.ReadRegister(dotp.Done)).To(BeZero())
		Expect(s.State()).To(Equal(sim.Idle))
	})

	It("never finishes when hung", func() {
		s := sim.New(sim.Config{Hang: true})
		load(s)
		s.WriteRegister(dotp.Start, 1)
		s.WriteRegister(dotp.Start, 0)
		s.WaitCycles(10000)
		Expect(s.Peek(dotp.Done)).To(BeZero())
		Expect(s.State()).To(Equal(sim.Computing))
	})

	It("applies an injected fault to the result", func() {
		s := sim.New(sim.Config{Latency: 1, Fault: sim.ResultOffset(-1 << 40)})
		load(s)
		s.WriteRegister(dotp.Start, 1)
		s.WriteRegister(dotp.Start, 0)
		Expect(dotp.AssembleResult(s.Peek(dotp.ResultLo), s.Peek(dotp.ResultHi))).To(Equal(int64(-8 - 1<<40)))
	})

	It("only looks at bit 0 of start", func() {
		s := sim.New(sim.Config{})
		s.WriteRegister(dotp.Start, 0xFFFFFFFE)
		Expect(s.Peek(dotp.Start)).To(BeZero())
		Expect(s.Starts()).To(BeZero())
	})

	Context("violations", func() {
		It("flags operand writes while computing", func() {
			s := sim.New(sim.Config{Latency: 100})
			load(s)
			s.WriteRegister(dotp.Start, 1)
			s.WriteRegister(dotp.Start, 0)
			s.WriteRegister(dotp.A3, 42)
			Expect(s.Violations()).To(HaveLen(1))
			Expect(s.Violations()[0].Register).To(Equal(dotp.A3))
			Expect(s.Violations()[0].String()).To(ContainSubstring("while computing"))
		})

		It("flags writes to status registers and reads of control registers", func() {
			s := sim.New(sim.Config{})
			s.WriteRegister(dotp.Done, 1)
			s.WriteRegister(dotp.ResultLo, 1)
			Expect(s.ReadRegister(dotp.A0)).To(BeZero())
			Expect(s.ReadRegister(dotp.Start)).To(BeZero())
			Expect(s.Violations()).To(HaveLen(4))
			Expect(s.Peek(dotp.Done)).To(BeZero())
		})

		It("forgets violations and trace on ClearTrace", func() {
			s := sim.New(sim.Config{})
			s.WriteRegister(dotp.Done, 1)
			Expect(s.Trace()).To(HaveLen(1))
			s.ClearTrace()
			Expect(s.Trace()).To(BeEmpty())
			Expect(s.Violations()).To(BeEmpty())
		})
	})

	It("counts one cycle per access", func() {
		s := sim.New(sim.Config{})
		s.WriteRegister(dotp.A0, 1)
		s.ReadRegister(dotp.Done)
		s.WaitCycles(5)
		Expect(s.Cycle()).To(Equal(uint64(7)))
		Expect(s.Trace()[1].Cycle).To(Equal(uint64(1)))
		Expect(s.Trace()[1].Kind).To(Equal(sim.Read))
	})
})
