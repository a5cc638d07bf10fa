package mcpserver

// StudyGuide describes the study data model for LLM consumers creating notes
// or driving the timer through the tools.
const StudyGuide = `# Study Guide

## Notes

A note has a title, a subject and content. Title and content must be
non-empty after trimming whitespace; the server assigns the id and the
created/lastModified timestamps (Unix milliseconds).

Subjects: ` + "`general`, `biology`, `chemistry`, `physics`, `mathematics`, `computer`" + `.
When no subject is given, ` + "`biology`" + ` is used.

Notes are listed most recently created first. Deleting an unknown id is a
no-op.

## Terms

The catalog maps English scientific terms and phrases to Arabic. Each term is
classified as ` + "`biology`, `chemistry`, `physics` or `general`" + ` by keyword.
Searches need at least two characters and return at most ten terms in
catalog order.

## Timer

Focus sessions (25 minutes by default) alternate with short breaks; every
fourth focus session is followed by a long break. Breaks start on their own,
focus sessions must be started. ` + "`timer_control`" + ` accepts ` + "`start`, `pause`, `reset` and `quick`" + `
(a five minute focus session).
`
