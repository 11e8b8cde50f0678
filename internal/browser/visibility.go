package browser

import (
	"encoding/json"
	"fmt"
)

// textHiddenFunc returns an arrow function that yields true when no element
// whose own text (whitespace collapsed) equals text is visible. Visible means a
// non-empty bounding box and a computed visibility other than hidden.
func textHiddenFunc(text string) string {
	quoted, _ := json.Marshal(text)
	return fmt.Sprintf(`() => {
	const want = %s.replace(/\s+/g, " ").trim();
	const root = document.body || document.documentElement;
	if (!root) return true;
	const norm = (s) => (s || "").replace(/\s+/g, " ").trim();
	const skip = new Set(["SCRIPT", "STYLE", "TEMPLATE", "NOSCRIPT"]);
	for (const el of root.querySelectorAll("*")) {
		if (skip.has(el.tagName)) continue;
		if (norm(el.textContent) !== want) continue;
		let deeper = false;
		for (const child of el.children) {
			if (norm(child.textContent) === want) { deeper = true; break; }
		}
		if (deeper) continue;
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		if (rect.width > 0 && rect.height > 0 && style.visibility !== "hidden") {
			return false;
		}
	}
	return true;
}`, quoted)
}

// textHiddenJS is textHiddenFunc as an immediately invoked expression.
func textHiddenJS(text string) string {
	return "(" + textHiddenFunc(text) + ")()"
}
