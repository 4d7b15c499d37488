// Package color provides the terminal palette used by the console reporter.
//
// Colors are adaptive: each one has a light and a dark variant and the
// lipgloss renderer picks the variant matching the terminal background.
// Styles are always created from a renderer bound to the output writer, so
// writing to a file or buffer produces plain text while a TTY gets colors.
//
// # Semantic colors
//
//   - Success: passed cases
//   - Error: failed cases
//   - Warning: cases that could not be evaluated
//   - Muted: skipped cases and metadata lines
//   - Primary: headers
//
// # Usage Example
//
//	styles := color.NewStyles(lipgloss.NewRenderer(os.Stdout))
//	fmt.Println(styles.Passed.Render("✅ passed"))
//	fmt.Println(styles.Status("failed").Render("❌ failed"))
//
// NO_COLOR is honoured by the renderer's profile detection.
package color
