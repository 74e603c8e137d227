package voice

// Tool is a named action the language model can invoke mid-conversation.
// The shopping assistant registers one Tool per cart operation
// (add_to_cart, place_order, ...).
type Tool struct {
	// Name is the unique identifier for the tool (e.g. "add_to_cart").
	Name string `json:"name"`

	// Description tells the model what the tool does and when to use it.
	Description string `json:"description"`

	// Parameters is the JSON schema for the tool's arguments.
	// Example:
	//   map[string]any{
	//       "type": "object",
	//       "properties": map[string]any{
	//           "item_id": map[string]any{"type": "string"},
	//           "quantity": map[string]any{"type": "integer"},
	//       },
	//       "required": []string{"item_id"},
	//   }
	Parameters map[string]any `json:"parameters"`

	// Handler runs when the model invokes the tool. The returned string is
	// spoken back through the model, so handlers return plain sentences and
	// reserve the error for genuinely broken infrastructure.
	Handler func(args map[string]any) (string, error) `json:"-"`
}

// ToolCall is one invocation of a tool by the model.
type ToolCall struct {
	// ID matches results back to the correct call.
	ID string

	// Name is the tool being invoked.
	Name string

	// Arguments holds the parsed arguments from the model.
	Arguments map[string]any
}

// ToolResult is the outcome of a tool invocation, keyed by the call ID.
type ToolResult struct {
	CallID string
	Result string
	Error  error
}
