// File: internal/discovery/scripts.go
package discovery

import (
	"fmt"
	"strconv"
)

// The enumeration scripts each run as a single page evaluation returning a
// JSON value, so every scan costs exactly one CDP round trip.

// formFieldsScript enumerates input-like nodes with a rendered box.
const formFieldsScript = `(() => {
  const out = [];
  document.querySelectorAll('input, textarea, select').forEach((el, i) => {
    const r = el.getBoundingClientRect();
    if (r.width > 0 && r.height > 0) {
      out.push({
        index: i,
        tag: el.tagName,
        type: el.type || '',
        id: el.id || '',
        name: el.name || '',
        placeholder: el.placeholder || '',
        class: el.getAttribute('class') || '',
        x: r.x, y: r.y,
      });
    }
  });
  return out;
})()`

// clickablesScript enumerates every visible node that looks interactive:
// native interactive tags, click handlers, button roles, submit types,
// pointer cursors, or a class from the button vocabulary (including the
// Mantine UI button classes the target dashboard renders).
const clickablesScript = `(() => {
  const out = [];
  const buttonClasses = ['btn', 'button', 'submit', 'login', 'primary', 'mantine-Button', 'mantine-Button-root'];
  document.querySelectorAll('*').forEach((el, i) => {
    const r = el.getBoundingClientRect();
    const st = window.getComputedStyle(el);
    if (r.width <= 0 || r.height <= 0 || st.display === 'none' ||
        st.visibility === 'hidden' || st.opacity === '0') {
      return;
    }
    const clickable =
      el.tagName === 'BUTTON' ||
      el.tagName === 'A' ||
      el.tagName === 'INPUT' ||
      el.onclick !== null ||
      el.getAttribute('role') === 'button' ||
      el.getAttribute('type') === 'submit' ||
      st.cursor === 'pointer' ||
      buttonClasses.some(c => el.classList.contains(c));
    if (clickable) {
      out.push({
        index: i,
        tag: el.tagName,
        text: (el.textContent || '').trim(),
        class: el.getAttribute('class') || '',
        id: el.id || '',
        type: el.getAttribute('type') || '',
        role: el.getAttribute('role') || '',
        cursor: st.cursor,
        x: r.x, y: r.y, w: r.width, h: r.height,
      });
    }
  });
  return out;
})()`

// pageElementsScript snapshots every visible node's own text (direct text
// nodes only, matching XPath text() semantics) plus the attributes the label
// strategies look at.
const pageElementsScript = `(() => {
  const out = [];
  document.querySelectorAll('*').forEach((el, i) => {
    const r = el.getBoundingClientRect();
    const st = window.getComputedStyle(el);
    if (r.width <= 0 || r.height <= 0 || st.display === 'none' || st.visibility === 'hidden') {
      return;
    }
    const own = Array.from(el.childNodes)
      .filter(n => n.nodeType === Node.TEXT_NODE)
      .map(n => n.textContent)
      .join(' ')
      .trim();
    const title = el.getAttribute('title') || '';
    const aria = el.getAttribute('aria-label') || '';
    if (own === '' && title === '' && aria === '') {
      return;
    }
    out.push({
      index: i,
      tag: el.tagName,
      text: own,
      title: title,
      aria: aria,
      class: el.getAttribute('class') || '',
      inNav: el.closest('nav, [class*="nav"]') !== null,
    });
  });
  return out;
})()`

// countVisibleScript counts rendered, displayed matches for a CSS selector.
func countVisibleScript(selector string) string {
	return fmt.Sprintf(`(() => {
  let n = 0;
  try {
    document.querySelectorAll(%s).forEach(el => {
      const r = el.getBoundingClientRect();
      const st = window.getComputedStyle(el);
      if (r.width > 0 && r.height > 0 && st.display !== 'none' && st.visibility !== 'hidden') {
        n++;
      }
    });
  } catch (e) {}
  return n;
})()`, strconv.Quote(selector))
}

// findVisibleScript locates the first visible element matching the CSS
// selector (and, when text is non-empty, carrying that text in its direct
// text nodes), tags it with the mark attribute so the caller has a stable
// selector to interact with, and reports what it found. Matching own text
// rather than subtree text keeps broad scans like "*" from resolving to a
// page wrapper whose descendants mention the text; an ancestor container is
// never the control the caller wants to click.
func findVisibleScript(selector, text, mark string) string {
	return fmt.Sprintf(`(() => {
  const text = %s;
  try {
    const els = document.querySelectorAll(%s);
    for (const el of els) {
      const r = el.getBoundingClientRect();
      const st = window.getComputedStyle(el);
      if (r.width <= 0 || r.height <= 0 || st.display === 'none' || st.visibility === 'hidden') {
        continue;
      }
      const own = Array.from(el.childNodes)
        .filter(n => n.nodeType === Node.TEXT_NODE)
        .map(n => n.textContent)
        .join(' ')
        .trim();
      if (text !== '' && !own.includes(text)) {
        continue;
      }
      el.setAttribute(%s, %s);
      return {found: true, tag: el.tagName, text: own.slice(0, 120)};
    }
  } catch (e) {}
  return {found: false};
})()`, strconv.Quote(text), strconv.Quote(selector), strconv.Quote(markAttr), strconv.Quote(mark))
}

// markIndexScript tags the element at the given position of a fresh
// document-order scan so it can be addressed with a stable selector.
func markIndexScript(scanSelector string, index int, mark string) string {
	return fmt.Sprintf(`(() => {
  const els = document.querySelectorAll(%s);
  if (%d >= els.length) { return false; }
  els[%d].setAttribute(%s, %s);
  return true;
})()`, strconv.Quote(scanSelector), index, index, strconv.Quote(markAttr), strconv.Quote(mark))
}
