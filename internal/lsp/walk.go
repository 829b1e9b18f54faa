package lsp

import "github.com/eligian-lang/eligianc/internal/ast"

// callAtOffset walks every statement list reachable from doc's root looking
// for the statement-level call (the call of an OperationStmt) whose Range
// contains offset; calls nested inside arguments and stagger-event calls
// are not searched. Returns ok=false
// if none does -- hover and signature-style completion both start here,
// since an operation call is the only thing this server explains on hover.
func callAtOffset(root ast.Document, offset int) (ast.CallExpr, bool) {
	var stmtLists [][]ast.Stmt

	switch r := root.(type) {
	case *ast.Program:
		for _, a := range r.Actions {
			stmtLists = append(stmtLists, a.Start, a.End)
		}
		for _, ea := range r.EventActions {
			stmtLists = append(stmtLists, ea.Body)
		}
		for _, tl := range r.Timelines {
			for _, ev := range tl.Events {
				switch e := ev.(type) {
				case *ast.TimedEvent:
					stmtLists = append(stmtLists, e.StartOps, e.EndOps)
				case *ast.SequenceEvent:
					stmtLists = append(stmtLists, e.Body)
				}
			}
		}
	case *ast.Library:
		for _, a := range r.Actions {
			stmtLists = append(stmtLists, a.Start, a.End)
		}
	}

	for _, stmts := range stmtLists {
		if call, ok := callInStmts(stmts, offset); ok {
			return call, true
		}
	}
	return ast.CallExpr{}, false
}

func callInStmts(stmts []ast.Stmt, offset int) (ast.CallExpr, bool) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.OperationStmt:
			if contains(st.Call.Range, offset) {
				return st.Call, true
			}
		case *ast.IfStmt:
			if call, ok := callInStmts(st.Then, offset); ok {
				return call, true
			}
			if call, ok := callInStmts(st.Else, offset); ok {
				return call, true
			}
		case *ast.ForStmt:
			if call, ok := callInStmts(st.Body, offset); ok {
				return call, true
			}
		}
	}
	return ast.CallExpr{}, false
}

func contains(r ast.Range, offset int) bool {
	return offset >= r.Start.Offset && offset < r.End.Offset
}

// actionAt returns the top-level ActionDecl whose Range contains offset.
func actionAt(root ast.Document, offset int) (*ast.ActionDecl, bool) {
	var actions []*ast.ActionDecl
	switch r := root.(type) {
	case *ast.Program:
		actions = r.Actions
	case *ast.Library:
		actions = r.Actions
	}
	for _, a := range actions {
		if contains(a.Range, offset) {
			return a, true
		}
	}
	return nil, false
}

// enclosingFor reports whether offset falls inside a ForStmt body anywhere
// in root, used to gate @@loopIndex completion to loop bodies only.
func enclosingFor(root ast.Document, offset int) (*ast.ForStmt, bool) {
	var stmtLists [][]ast.Stmt
	switch r := root.(type) {
	case *ast.Program:
		for _, a := range r.Actions {
			stmtLists = append(stmtLists, a.Start, a.End)
		}
		for _, ea := range r.EventActions {
			stmtLists = append(stmtLists, ea.Body)
		}
		for _, tl := range r.Timelines {
			for _, ev := range tl.Events {
				switch e := ev.(type) {
				case *ast.TimedEvent:
					stmtLists = append(stmtLists, e.StartOps, e.EndOps)
				case *ast.SequenceEvent:
					stmtLists = append(stmtLists, e.Body)
				}
			}
		}
	case *ast.Library:
		for _, a := range r.Actions {
			stmtLists = append(stmtLists, a.Start, a.End)
		}
	}
	for _, stmts := range stmtLists {
		if f, ok := forInStmts(stmts, offset); ok {
			return f, true
		}
	}
	return nil, false
}

func forInStmts(stmts []ast.Stmt, offset int) (*ast.ForStmt, bool) {
	for _, s := range stmts {
		switch st := s.(type) {
		case *ast.ForStmt:
			if contains(st.Range, offset) {
				if inner, ok := forInStmts(st.Body, offset); ok {
					return inner, true
				}
				return st, true
			}
		case *ast.IfStmt:
			if contains(st.Range, offset) {
				if f, ok := forInStmts(st.Then, offset); ok {
					return f, true
				}
				if f, ok := forInStmts(st.Else, offset); ok {
					return f, true
				}
			}
		}
	}
	return nil, false
}

// actionNames returns every action name declared in root, used by
// completion to offer user-defined actions alongside built-in operations.
func actionNames(root ast.Document) []string {
	var names []string
	switch r := root.(type) {
	case *ast.Program:
		for _, a := range r.Actions {
			names = append(names, a.Name)
		}
	case *ast.Library:
		for _, a := range r.Actions {
			names = append(names, a.Name)
		}
	}
	return names
}
