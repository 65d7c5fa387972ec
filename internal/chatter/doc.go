// Package chatter predicts regenerative chatter with a single degree of
// freedom model of the dominant tool/spindle mode.
//
// A [Model] is built once from mass, stiffness, damping, the specific
// cutting coefficient and the tooth count; its natural frequency and
// damping ratio are fixed at construction. Every query is a pure function
// of those parameters:
//
//	m, _ := chatter.NewModel(chatter.Params{
//	    Mass: 0.5, Stiffness: 2e7, Damping: 150, Kc: 2000, Teeth: 4,
//	})
//	lobes := chatter.GenerateStabilityLobes(m, chatter.RPMRange{Min: 2000, Max: 20000}, 5)
//	check, _ := chatter.CheckStability(m, 12000, 1.5)
//
// # Stability Criterion
//
// The limiting depth of cut at chatter frequency ω is
//
//	b_lim = −1 / (2·Kc·z·Re[G(ω)])
//
// and only exists where Re[G(ω)] is negative. Where the real part is zero
// or positive the cut is unconditionally stable and [Model.CriticalDepth]
// returns +Inf.
package chatter
