package judge

import "strings"

// Prompt templates use simple named slots ({content}, {plan_content}, ...)
// filled by naive substitution. Critique-focused: binary pass/fail plus a
// gaps list, no numeric scores.

// PlanPrompt reviews an implementation plan for missing P0 elements.
const PlanPrompt = `You are a critical reviewer of implementation plans. Find what's MISSING or WRONG.

**Plan Document:**
{content}

**Required Elements (P0 - must have):**
1. Clear phases with logical order
2. Success criteria for verification
3. Specific files/functions to modify
4. Dependencies between steps

**Find These Issues:**
- Missing requirements that should be specified
- Vague phases without concrete actions
- No verification criteria
- Missing file/function specifics
- Unclear dependencies

**Output JSON only:**
{
  "verdict": "PASS" | "FAIL",
  "gaps": [
    {
      "type": "MISSING_REQUIREMENT|VAGUE_PHASE|NO_VERIFICATION|UNCLEAR",
      "severity": "P0|P1|P2",
      "description": "what's missing",
      "fix_suggestion": "how to fix"
    }
  ],
  "summary": "1 sentence assessment"
}

A plan FAILS if any P0 element is missing. Focus on gaps only.`

// ReviewPrompt verifies code changes against the plan they implement.
const ReviewPrompt = `You are verifying whether code changes implement a plan correctly.

**PLAN (Source of Truth):**
{plan_content}

**CODE CHANGES:**
{diff_content}

**SESSION CONTEXT (what tools were used):**
{session_summary}

**Instructions:**
1. List requirements from the PLAN
2. For each, find evidence in CODE CHANGES
3. Mark as: DONE | PARTIAL | MISSING | DIVERGED

**Focus on GAPS only - do not list correctly implemented items.**

**Output JSON only:**
{
  "verdict": "PASS" | "FAIL",
  "requirements_checked": {"total": N, "done": N, "gaps": N},
  "gaps": [
    {
      "id": "GAP-001",
      "requirement": "what was expected",
      "status": "MISSING|PARTIAL|DIVERGED",
      "evidence": "file:line or 'not found'",
      "severity": "P0|P1|P2",
      "fix_action": "specific fix"
    }
  ],
  "scope_creep": ["items in diff but not in plan"],
  "summary": "1 sentence verdict"
}

PASS if all P0 requirements DONE. FAIL if any P0 gap exists.`

// PrecedentPrompt reviews a plan against similar past work retrieved from
// the context graph.
const PrecedentPrompt = `You are reviewing a plan before implementation.

**Plan to evaluate:**
{plan_content}

**Similar past work that SUCCEEDED (learn from these):**
{succeeded_precedent}

**Similar past work that FAILED (avoid these patterns):**
{failed_precedent}

Based on the precedent from similar past work, evaluate this plan.

Respond in JSON:
{
  "verdict": "PASS" or "FAIL",
  "gaps": [
    {"requirement": "What's missing", "severity": "P0/P1", "evidence": "Based on similar failure in..."}
  ],
  "insights": ["Patterns from past successes that apply here"],
  "summary": "One sentence assessment"
}

PASS if plan addresses patterns that caused past failures.
FAIL if plan repeats mistakes from similar failed work.`

// LearnPrompt extracts learnings from a formatted session trace. Output is
// markdown, not JSON, so it bypasses the verdict decoder.
const LearnPrompt = `Analyze this agent session trace. Extract learnings:

SESSION TRACE:
{formatted_trace}

Provide:
1. **What Worked** - Approaches that succeeded
2. **What Failed** - Approaches abandoned or blocked
3. **Key Decisions** - Important choices and rationale
4. **Patterns** - Reusable techniques

Be specific. Reference actual tool calls and outcomes.

Output in markdown format (not JSON).`

// fillPrompt substitutes {name} slots with values. No escaping: templates
// are trusted constants and values are document content.
func fillPrompt(template string, args map[string]string) string {
	out := template
	for name, value := range args {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}
