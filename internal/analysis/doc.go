// Package analysis inspects a finished trajectory.
//
//   - [FindImpact]: where and how the axe meets the ground
//   - [PredictImpactTime]: closed-form landing time for a ballistic throw
//   - [NewPhasePortrait]: two state components against each other
//   - [NewSection]: samples taken where one component crosses a level
//
// # Impact
//
// The impact is the first sample pair where the center falls through the
// ground line. Time, position and angle are interpolated between them:
//
//	imp, err := analysis.FindImpact(result, 0)
//	if err == nil && imp.BladeFirst {
//	    // head lands before the butt
//	}
package analysis
