// Package template renders survey pages and other plain-text documents from
// a small directive language over a dynamic data tree.
//
// # Syntax
//
// Interpolation:
//   - {{ path }} - string form of the value at path, empty if unresolved
//
// Conditionals:
//   - {% if path %}...{% endif %} - keeps the content when path is truthy
//
// Loops:
//   - {% for item in path %}...{% endfor %} - repeats the body once per
//     element of the sequence at path, with item bound to the element
//
// A path is one or more [A-Za-z0-9_]+ segments joined by dots, for example
// survey.questions or survey.questions.0. Numeric segments index sequences.
//
// # Pipeline
//
// Render applies three rewriting passes over the whole string, in order:
// conditionals, loops, interpolation. Each pass is a single left-to-right
// scan; text it produces is not rescanned by the same pass. Loop bodies
// only receive interpolation, against a scope where the loop variable
// shadows outer names.
//
// # Missing Data
//
// An unresolved path is never an error. It is falsy in a condition, an
// empty sequence in a loop and the empty string in a marker. Directive
// syntax that does not match is left in the output as literal text. Use
// RenderReport to learn which paths did not resolve and Lint to find
// markers that will survive rendering.
//
// # Truthiness
//
// Undefined, null, false, zero, "" and the empty sequence are falsy.
// Everything else is truthy, including "false", "0" and any mapping.
//
// # Nesting
//
// By default the first {% endif %} or {% endfor %} closes the block that
// precedes it, so nested blocks of the same kind mis-pair:
//
//	{% if a %}{% if b %}x{% endif %}y{% endif %}
//
// renders "{% if b %}xy{% endif %}" when a is truthy. WithNesting(NestingBalanced)
// switches to a depth-balanced scanner that pairs blocks properly and
// evaluates conditions inside loop bodies against the loop scope.
//
// # Escaping
//
// Output is never escaped. Callers rendering HTML must sanitize values
// before they enter the context.
package template
