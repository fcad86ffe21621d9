// Package testing provides a widget testing harness for popper.
//
// # Quick Start
//
// Create a tester, pump a widget, and make assertions:
//
//	func TestMyWidget(t *testing.T) {
//	    tester := poppertest.NewWidgetTesterWithT(t)
//	    tester.PumpWidget(MyWidget{})
//
//	    // Find elements
//	    anchor := tester.Find(poppertest.ByTag("button")).First()
//
//	    // Mutate state through a dispatched callback, then pump
//	    tester.Dispatch(func() { model.Open() })
//	    tester.Pump()
//
//	    // Assert on the node tree
//	    if !tester.Find(poppertest.ByTag("tooltip")).Exists() {
//	        t.Error("expected a tooltip node")
//	    }
//	}
//
// The tester mounts widgets under a host root node, so every pumped tree
// has an attached node ancestry the way a real embedding provides one.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import poppertest "github.com/go-popper/popper/pkg/testing"
package testing
