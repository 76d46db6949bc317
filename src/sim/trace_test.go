package sim_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/lib/dot"
	"dotpaccel/src/sim"
)

func write(r dotp.Register, v uint32) sim.Access {
	return sim.Access{Kind: sim.Write, Register: r, Value: v}
}

func read(r dotp.Register, v uint32) sim.Access {
	return sim.Access{Kind: sim.Read, Register: r, Value: v}
}

func operands() []sim.Access {
	var t []sim.Access
	for i := 0; i < dot.Len; i++ {
		t = append(t, write(dotp.OperandA(i), 0))
	}
	for i := 0; i < dot.Len; i++ {
		t = append(t, write(dotp.OperandB(i), 0))
	}
	return t
}

func seq(parts ...[]sim.Access) []sim.Access {
	var t []sim.Access
	for _, p := range parts {
		t = append(t, p...)
	}
	return t
}

var _ = Describe("CheckProtocol", func() {
	pulse := []sim.Access{write(dotp.Start, 1), write(dotp.Start, 0)}
	finish := []sim.Access{read(dotp.Done, 0), read(dotp.Done, 1), read(dotp.ResultLo, 0), read(dotp.ResultHi, 0)}

	It("accepts a well formed operation", func() {
		Expect(sim.CheckProtocol(seq(operands(), pulse, finish))).To(Succeed())
	})

	It("rejects a start before all operands are written", func() {
		short := operands()[:15]
		Expect(sim.CheckProtocol(seq(short, pulse, finish))).To(MatchError(ContainSubstring("only 15 operand writes")))
	})

	It("rejects polling done while start is high", func() {
		t := seq(operands(), []sim.Access{write(dotp.Start, 1), read(dotp.Done, 1), write(dotp.Start, 0)})
		Expect(sim.CheckProtocol(t)).To(MatchError(ContainSubstring("start is still high")))
	})

	It("rejects a start left high", func() {
		t := seq(operands(), []sim.Access{write(dotp.Start, 1)})
		Expect(sim.CheckProtocol(t)).To(MatchError(sim.ErrProtocol))
	})

	It("rejects reading the result before done", func() {
		t := seq(operands(), pulse, []sim.Access{read(dotp.ResultLo, 0)})
		Expect(sim.CheckProtocol(t)).To(MatchError(ContainSubstring("result read before done")))
	})

	It("rejects operand writes after start", func() {
		t := seq(operands(), pulse, []sim.Access{write(dotp.A0, 5)}, finish)
		Expect(sim.CheckProtocol(t)).To(MatchError(ContainSubstring("operand written after start")))
	})

	It("rejects an empty trace", func() {
		Expect(sim.CheckProtocol(nil)).To(MatchError(sim.ErrProtocol))
	})
})
