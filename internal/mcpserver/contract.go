package mcpserver

// NoteFormatContract describes how notes are rendered by get_note and which
// fields update_note accepts.
const NoteFormatContract = `# AI Notes Note Format

get_note returns a note as Markdown with YAML frontmatter:

` + "```" + `markdown
---
id: "65f1c0ffee"                    # backend identifier, pass it to every tool
title: Shopping
favorite: false
type: audio                          # present for audio notes
createdAt: "2025-03-01T09:30:00Z"
images:                              # server-hosted image URLs
  - https://cdn.example.com/a.png
---
Note content in plain text or Markdown.
` + "```" + `

## Editing rules

1. Edits go through update_note. Omitted fields keep their current value.
2. Images can only be removed by URL (remove_images) or added with attach_image.
   Existing images cannot be reordered.
3. toggle_favorite flips the flag immediately; it is not part of update_note.
4. attach_image accepts an http(s) URL or a base64 data URI.
   Supported formats: png, jpg, jpeg, gif, webp, svg.
`
