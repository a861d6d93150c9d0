package dom

// ChangeCallback receives notifications about tree mutations. Callbacks are
// registered per tree root; the document façade uses one to learn when the
// host's styled-text projection has gone stale.
type ChangeCallback interface {
	// OnChildListChange is called when children are added to or removed
	// from parent.
	OnChildListChange(parent *Node)

	// OnAttributeChange is called when an element attribute is set,
	// replaced, or removed.
	OnAttributeChange(el *Node, name, oldValue string)

	// OnTextChange is called when a text node's character data changes.
	OnTextChange(text *Node, oldValue string)
}

// RegisterChangeCallback registers a callback for mutations anywhere in the
// tree rooted at root. The callback list lives on the root node itself, so
// trees owned by different workers share no state.
func RegisterChangeCallback(root *Node, callback ChangeCallback) {
	if root == nil || callback == nil {
		return
	}
	root.callbacks = append(root.callbacks, callback)
}

// UnregisterChangeCallback removes a previously registered callback.
func UnregisterChangeCallback(root *Node, callback ChangeCallback) {
	if root == nil {
		return
	}
	for i, cb := range root.callbacks {
		if cb == callback {
			root.callbacks = append(root.callbacks[:i], root.callbacks[i+1:]...)
			return
		}
	}
}

// ClearChangeCallbacks removes all callbacks for a tree.
func ClearChangeCallbacks(root *Node) {
	if root != nil {
		root.callbacks = nil
	}
}

func notifyChildListChange(parent *Node) {
	if parent == nil {
		return
	}
	for _, cb := range parent.Root().callbacks {
		cb.OnChildListChange(parent)
	}
}

func notifyAttributeChange(el *Node, name, oldValue string) {
	if el == nil {
		return
	}
	for _, cb := range el.Root().callbacks {
		cb.OnAttributeChange(el, name, oldValue)
	}
}

func notifyTextChange(text *Node, oldValue string) {
	if text == nil {
		return
	}
	for _, cb := range text.Root().callbacks {
		cb.OnTextChange(text, oldValue)
	}
}
