package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/qaco/internal/ir"
)

// scope resolves names to the entities declared by a composite service.
type scope struct {
	tasks    map[string]ir.Task
	features map[string]ir.Feature
}

func newScope(cws *ir.CompositeWebService) *scope {
	s := &scope{
		tasks:    make(map[string]ir.Task),
		features: make(map[string]ir.Feature),
	}
	if cws == nil {
		return s
	}
	for _, t := range cws.Tasks {
		if _, dup := s.tasks[t.Name]; !dup {
			s.tasks[t.Name] = t
		}
	}
	for _, f := range cws.Features {
		if _, dup := s.features[f.Name]; !dup {
			s.features[f.Name] = f
		}
	}
	return s
}

func (s *scope) task(name string) ir.Task {
	if t, ok := s.tasks[name]; ok {
		return t
	}
	return ir.Task{Name: name}
}

func (s *scope) taskList(names []string) []ir.Task {
	if names == nil {
		return nil
	}
	out := make([]ir.Task, len(names))
	for i, n := range names {
		out[i] = s.task(n)
	}
	return out
}

func (s *scope) feature(name string) ir.Feature {
	if f, ok := s.features[name]; ok {
		return f
	}
	return ir.Feature{Name: name}
}

func (s *scope) featureList(names []string) []ir.Feature {
	if names == nil {
		return nil
	}
	out := make([]ir.Feature, len(names))
	for i, n := range names {
		out[i] = s.feature(n)
	}
	return out
}

// CompileCWS builds a composite service from a CUE value.
func CompileCWS(v cue.Value) (*ir.CompositeWebService, error) {
	const path = "cws"
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "must be a struct")
	}

	cws := &ir.CompositeWebService{}
	var err error
	if cws.Name, err = stringField(v, "name", path); err != nil {
		return nil, err
	}
	if cws.Description, err = stringField(v, "description", path); err != nil {
		return nil, err
	}

	err = eachElem(v, "tasks", path, func(_ int, elem cue.Value, elemPath string) error {
		t, err := compileTask(elem, elemPath)
		if err != nil {
			return err
		}
		cws.Tasks = append(cws.Tasks, t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Candidates refer to tasks, so tasks must be known first.
	names := newScope(cws)
	err = eachElem(v, "candidate_services", path, func(_ int, elem cue.Value, elemPath string) error {
		c, err := compileCandidate(elem, elemPath, names)
		if err != nil {
			return err
		}
		cws.CandidateServices = append(cws.CandidateServices, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v, "features", path, func(_ int, elem cue.Value, elemPath string) error {
		f, err := compileFeature(elem, elemPath)
		if err != nil {
			return err
		}
		cws.Features = append(cws.Features, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if g, ok := lookup(v, "graph"); ok {
		if cws.Graph, err = compileGraph(g, path+".graph"); err != nil {
			return nil, err
		}
	}
	return cws, nil
}

// compileTask accepts either a bare name or {name, description}.
func compileTask(v cue.Value, path string) (ir.Task, error) {
	if s, err := v.String(); err == nil {
		return ir.Task{Name: s}, nil
	}
	if v.Kind() != cue.StructKind {
		return ir.Task{}, fieldError(v, path, "must be a string or struct with name")
	}
	name, err := stringField(v, "name", path)
	if err != nil {
		return ir.Task{}, err
	}
	desc, err := stringField(v, "description", path)
	if err != nil {
		return ir.Task{}, err
	}
	return ir.Task{Name: name, Description: desc}, nil
}

func compileCandidate(v cue.Value, path string, names *scope) (ir.CandidateService, error) {
	var c ir.CandidateService
	if v.Kind() != cue.StructKind {
		return c, fieldError(v, path, "must be a struct")
	}
	var err error
	if c.Name, err = stringField(v, "name", path); err != nil {
		return c, err
	}
	if c.Description, err = stringField(v, "description", path); err != nil {
		return c, err
	}
	if c.Provider, err = stringField(v, "provider", path); err != nil {
		return c, err
	}
	taskNames, err := stringList(v, "tasks", path)
	if err != nil {
		return c, err
	}
	c.Tasks = names.taskList(taskNames)
	return c, nil
}

// compileFeature reads {name, description, values: {service: number}}.
// Values keep declaration order.
func compileFeature(v cue.Value, path string) (ir.Feature, error) {
	var f ir.Feature
	if v.Kind() != cue.StructKind {
		return f, fieldError(v, path, "must be a struct")
	}
	var err error
	if f.Name, err = stringField(v, "name", path); err != nil {
		return f, err
	}
	if f.Description, err = stringField(v, "description", path); err != nil {
		return f, err
	}

	values, ok := lookup(v, "values")
	if !ok {
		return f, nil
	}
	if values.Kind() != cue.StructKind {
		return f, fieldError(values, path+".values", "must be a struct of service: number")
	}
	iter, err := values.Fields()
	if err != nil {
		return f, formatCUEError(err)
	}
	for iter.Next() {
		n, err := number(iter.Value(), path+".values."+iter.Label())
		if err != nil {
			return f, err
		}
		f.Values = append(f.Values, ir.FeatureValue{Service: iter.Label(), Value: n})
	}
	return f, nil
}

// compileGraph reads nodes by label and type, and edges whose endpoints name
// node labels. An edge naming an undeclared label is a compile error; the
// model itself treats the graph as plain data.
func compileGraph(v cue.Value, path string) (*ir.Graph, error) {
	if v.Kind() != cue.StructKind {
		return nil, fieldError(v, path, "must be a struct")
	}
	g := &ir.Graph{}
	byLabel := make(map[string]ir.GraphNode)

	err := eachElem(v, "nodes", path, func(_ int, elem cue.Value, elemPath string) error {
		label, err := stringField(elem, "label", elemPath)
		if err != nil {
			return err
		}
		typ, err := stringField(elem, "type", elemPath)
		if err != nil {
			return err
		}
		if !ir.ValidNodeTypes[ir.GraphNodeType(typ)] {
			return fieldError(elem, elemPath+".type", "unknown node type %q", typ)
		}
		n := ir.GraphNode{Label: label, Type: ir.GraphNodeType(typ)}
		if _, dup := byLabel[label]; !dup {
			byLabel[label] = n
		}
		g.Nodes = append(g.Nodes, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v, "edges", path, func(_ int, elem cue.Value, elemPath string) error {
		src, err := edgeEndpoint(elem, "source", elemPath, byLabel)
		if err != nil {
			return err
		}
		dst, err := edgeEndpoint(elem, "target", elemPath, byLabel)
		if err != nil {
			return err
		}
		label, err := stringField(elem, "label", elemPath)
		if err != nil {
			return err
		}
		g.Edges = append(g.Edges, ir.GraphEdge{Source: src, Target: dst, Label: label})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachElem(v, "probabilities", path, func(_ int, elem cue.Value, elemPath string) error {
		var p ir.Probability
		err := eachElem(elem, "nodes", elemPath, func(_ int, n cue.Value, nodePath string) error {
			var pn ir.ProbabilityNode
			err := eachElem(n, "edges", nodePath, func(_ int, e cue.Value, edgePath string) error {
				value, err := number(e, edgePath)
				if err != nil {
					return err
				}
				pn.Edges = append(pn.Edges, ir.ProbabilityEdge{Value: value})
				return nil
			})
			p.Nodes = append(p.Nodes, pn)
			return err
		})
		g.Probabilities = append(g.Probabilities, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// edgeEndpoint resolves an edge endpoint label to its declared node.
func edgeEndpoint(elem cue.Value, field, path string, byLabel map[string]ir.GraphNode) (ir.GraphNode, error) {
	label, err := stringField(elem, field, path)
	if err != nil {
		return ir.GraphNode{}, err
	}
	n, ok := byLabel[label]
	if !ok {
		at := elem
		if f, found := lookup(elem, field); found {
			at = f
		}
		return ir.GraphNode{}, fieldError(at, path+"."+field, "unknown node %q", label)
	}
	return n, nil
}
