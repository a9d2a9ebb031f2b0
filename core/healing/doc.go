// Package healing turns raw drift into an accepted schema state.
//
// Every added key that was not matched as a rename is offered for discard,
// which needs two yes answers (DiscardAdded, then ConfirmDiscard). Every
// unmatched removed key is offered for restore from the prior snapshot.
// Answers come from a Decider:
//
//   - Terminal prompts an operator on a reader/writer pair.
//   - Policy answers every prompt the same way (accept, revert, preserve).
//   - Scripted replays an Answers set, usually loaded with LoadAnswers.
//
// Heal never edits its inputs; the corrected map is returned in Outcome.
package healing
