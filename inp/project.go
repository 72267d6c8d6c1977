// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the project's JSON input format: a single
// document naming every object by ID, decoded top to bottom into a
// proj.Project, name-references resolved against the objects already
// seen earlier in the same document -- the teacher's .sim JSON loader's
// read-file/json.Unmarshal/build-derived-fields shape (inp/sim.go's
// ReadSim), adapted to the flat, entity-list document this domain needs
// instead of a FEM simulation's regions/stages.
package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/proj"
	"github.com/cpmech/swmmgo/xsect"
)

type xsectDoc struct {
	Shape       string  `json:"shape"`
	FullDepth   float64 `json:"full_depth"`
	BottomWidth float64 `json:"bottom_width"`
	SideSlope1  float64 `json:"side_slope1"`
	SideSlope2  float64 `json:"side_slope2"`
	Roughness   float64 `json:"roughness"`
}

var shapeNames = map[string]xsect.Shape{
	"circular":      xsect.Circular,
	"rect_closed":   xsect.RectClosed,
	"rect_open":     xsect.RectOpen,
	"trapezoidal":   xsect.Trapezoidal,
	"triangular":    xsect.Triangular,
	"parabolic":     xsect.Parabolic,
	"force_main":    xsect.ForceMain,
	"egg":           xsect.Egg,
	"horseshoe":     xsect.Horseshoe,
	"arch":          xsect.Arch,
	"semi_circular": xsect.SemiCircular,
}

func (d *xsectDoc) build() (*xsect.Section, error) {
	if d == nil {
		return nil, nil
	}
	shape, ok := shapeNames[d.Shape]
	if !ok {
		return nil, chk.Err("inp: unknown cross-section shape %q", d.Shape)
	}
	return &xsect.Section{
		Shape:       shape,
		FullDepth:   d.FullDepth,
		BottomWidth: d.BottomWidth,
		SideSlope1:  d.SideSlope1,
		SideSlope2:  d.SideSlope2,
		Roughness:   d.Roughness,
	}, nil
}

type gageDoc struct {
	ID                string  `json:"id"`
	TimeSeries        string  `json:"time_series"`
	RecordingInterval float64 `json:"recording_interval_sec"`
}

type timeSeriesDoc struct {
	ID   string    `json:"id"`
	Time []float64 `json:"time"`
	Val  []float64 `json:"value"`
}

type patternDoc struct {
	ID    string    `json:"id"`
	Kind  string    `json:"kind"` // monthly|daily|hourly|weekend_hourly
	Mults []float64 `json:"multipliers"`
}

type curveDoc struct {
	ID   string    `json:"id"`
	Type string    `json:"type"` // storage|diverter|tidal|weir_coef|pump_flow|rating|shape|control
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

type pollutantDoc struct {
	ID              string  `json:"id"`
	DecayRateRunoff float64 `json:"decay_rate_runoff"`
	DecayRatePipe   float64 `json:"decay_rate_pipe"`
	DWFConc         float64 `json:"dwf_conc"`
	InitConc        float64 `json:"init_conc"`
}

type landuseQualityDoc struct {
	Pollutant  string  `json:"pollutant"`
	Buildup    string  `json:"buildup"` // power|exponential|saturation|external
	BuildupC1  float64 `json:"buildup_c1"`
	BuildupC2  float64 `json:"buildup_c2"`
	BuildupC3  float64 `json:"buildup_c3"`
	PerCurbLen bool    `json:"per_curb_length"`
	Washoff    string  `json:"washoff"` // exponential|rating_curve|emc
	WashoffC1  float64 `json:"washoff_c1"`
	WashoffC2  float64 `json:"washoff_c2"`
	EMC        float64 `json:"emc"`
}

type landuseDoc struct {
	ID        string              `json:"id"`
	SweptFrac float64             `json:"swept_frac"`
	SweptDays float64             `json:"swept_days"`
	SweptEff  float64             `json:"swept_eff"`
	Quality   []landuseQualityDoc `json:"quality"`
}

type landuseAreaDoc struct {
	Landuse string  `json:"landuse"`
	Frac    float64 `json:"frac"`
}

type treatmentDoc struct {
	Pollutant string `json:"pollutant"`
	Expr      string `json:"expr"`
	IsRemoval bool   `json:"is_removal"`
}

type outfallDoc struct {
	Type         string  `json:"type"` // free|normal|fixed|tidal|timeseries
	FixedStage   float64 `json:"fixed_stage"`
	HasFlapGate  bool    `json:"flap_gate"`
}

type storageDoc struct {
	CurveRef   string  `json:"curve"`
	ConstArea  float64 `json:"const_area"`
	ExfilRate  float64 `json:"exfil_rate"`
	EvapFactor float64 `json:"evap_factor"`
}

type extInflowDoc struct {
	TimeSeries  string  `json:"time_series"`
	Pattern     string  `json:"pattern"`
	Baseline    float64 `json:"baseline"`
	ScaleFactor float64 `json:"scale_factor"`
	Pollutant   string  `json:"pollutant"` // set => a quality-only (concentration) inflow, not flow
}

type dwfInflowDoc struct {
	AvgValue  float64  `json:"avg_value"`
	Patterns  []string `json:"patterns"` // up to 4: monthly, daily, hourly, weekend-hourly
	Pollutant string   `json:"pollutant"` // set => a quality-only (concentration) DWF record, not flow
}

type nodeDoc struct {
	ID             string         `json:"id"`
	Kind           string         `json:"kind"` // junction|outfall|storage|divider
	InvertElev     float64        `json:"invert_elev"`
	FullDepth      float64        `json:"full_depth"`
	SurchargeDepth float64        `json:"surcharge_depth"`
	PondedArea     float64        `json:"ponded_area"`
	InitDepth      float64        `json:"init_depth"`
	Outfall        *outfallDoc    `json:"outfall"`
	Storage        *storageDoc    `json:"storage"`
	ExtInflows     []extInflowDoc `json:"ext_inflows"`
	DwfInflows     []dwfInflowDoc `json:"dwf_inflows"`
	Treatments     []treatmentDoc `json:"treatments"`
}

type linkDoc struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"` // conduit|pump|orifice|weir|outlet
	Node1      string     `json:"node1"`
	Node2      string     `json:"node2"`
	Length     float64    `json:"length"`
	Barrels    int        `json:"barrels"`
	Roughness  float64    `json:"roughness"`
	InOffset   float64    `json:"in_offset"`
	OutOffset  float64    `json:"out_offset"`
	InitFlow   float64    `json:"init_flow"`
	XSect      *xsectDoc  `json:"xsect"`
}

type subAreaDoc struct {
	FracArea  float64 `json:"frac_area"`
	Roughness float64 `json:"roughness"`
	DStore    float64 `json:"dstore"`
}

type subcatchDoc struct {
	ID          string       `json:"id"`
	Gage        string       `json:"gage"`
	OutletNode  string       `json:"outlet_node"`
	OutletSubc  string       `json:"outlet_subcatchment"`
	Area        float64      `json:"area_ft2"`
	Width       float64      `json:"width"`
	Slope       float64      `json:"slope"`
	FracImperv  float64      `json:"frac_imperv"`
	Imperv      subAreaDoc   `json:"imperv"`
	ImpervDep   subAreaDoc   `json:"imperv_depressed"`
	Pervious    subAreaDoc   `json:"pervious"`
	InfilModel  string       `json:"infil_model"`
	InfilParams []float64    `json:"infil_params"`
	Landuses    []landuseAreaDoc `json:"landuses"`
}

// Document is the top-level JSON project document.
type Document struct {
	Options       proj.Options    `json:"options"`
	Gages         []gageDoc       `json:"gages"`
	TimeSeries    []timeSeriesDoc `json:"time_series"`
	Patterns      []patternDoc    `json:"patterns"`
	Curves        []curveDoc      `json:"curves"`
	Pollutants    []pollutantDoc  `json:"pollutants"`
	Landuses      []landuseDoc    `json:"landuses"`
	Nodes         []nodeDoc       `json:"nodes"`
	Links         []linkDoc       `json:"links"`
	Subcatchments []subcatchDoc   `json:"subcatchments"`
}

var nodeKinds = map[string]proj.NodeKind{
	"junction": proj.Junction,
	"outfall":  proj.Outfall,
	"storage":  proj.Storage,
	"divider":  proj.Divider,
}

var linkKinds = map[string]proj.LinkKind{
	"conduit": proj.Conduit,
	"pump":    proj.Pump,
	"orifice": proj.Orifice,
	"weir":    proj.Weir,
	"outlet":  proj.OutletLink,
}

var outfallTypes = map[string]proj.OutfallBoundaryType{
	"free":       proj.OutfallFree,
	"normal":     proj.OutfallNormal,
	"fixed":      proj.OutfallFixed,
	"tidal":      proj.OutfallTidal,
	"timeseries": proj.OutfallTimeseries,
}

var patternKinds = map[string]proj.PatternKind{
	"monthly":        proj.PatternMonthly,
	"daily":          proj.PatternDaily,
	"hourly":         proj.PatternHourly,
	"weekend_hourly": proj.PatternWeekendHourly,
}

var buildupFuncs = map[string]proj.BuildupFunc{
	"power":       proj.BuildupPower,
	"exponential": proj.BuildupExponential,
	"saturation":  proj.BuildupSaturation,
	"external":    proj.BuildupExternal,
}

var washoffFuncs = map[string]proj.WashoffFunc{
	"exponential":  proj.WashoffExponential,
	"rating_curve": proj.WashoffRatingCurve,
	"emc":          proj.WashoffEMC,
}

var curveTypes = map[string]proj.CurveType{
	"storage":   proj.CurveStorage,
	"diverter":  proj.CurveDiverter,
	"tidal":     proj.CurveTidal,
	"weir_coef": proj.CurveWeirCoef,
	"pump_flow": proj.CurvePumpFlow,
	"rating":    proj.CurveRating,
	"shape":     proj.CurveShape,
	"control":   proj.CurveControl,
}

// names indexes every object kind's ID -> Ref registered so far. Load
// registers whole sections in a fixed kind order (time series, patterns,
// curves, pollutants, land-uses, gages, nodes, links, subcatchments), so a
// reference must name an object of a kind registered before the
// referring section; position in the document text does not matter.
type names struct {
	tseries map[string]proj.Ref
	pattern map[string]proj.Ref
	curve   map[string]proj.Ref
	gage    map[string]proj.Ref
	node    map[string]proj.Ref
	pollut  map[string]proj.Ref
	landuse map[string]proj.Ref
}

func newNames() *names {
	return &names{
		tseries: map[string]proj.Ref{},
		pattern: map[string]proj.Ref{},
		curve:   map[string]proj.Ref{},
		gage:    map[string]proj.Ref{},
		node:    map[string]proj.Ref{},
		pollut:  map[string]proj.Ref{},
		landuse: map[string]proj.Ref{},
	}
}

func (n *names) lookupTSeries(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.tseries[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown time series %q", id)
	}
	return ref, nil
}

func (n *names) lookupPattern(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.pattern[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown pattern %q", id)
	}
	return ref, nil
}

func (n *names) lookupNode(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.node[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown node %q", id)
	}
	return ref, nil
}

// LoadFile reads and decodes a JSON project document from path.
func LoadFile(path string) (*proj.Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("inp: cannot read project file %q: %v", path, err)
	}
	return Load(b)
}

// Load decodes a JSON project document and builds the corresponding
// proj.Project, resolving name references section by section in a fixed
// kind order (subcatchment outlets in a second pass).
func Load(data []byte) (*proj.Project, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, chk.Err("inp: invalid project document: %v", err)
	}

	opts := doc.Options
	if opts.MaxTrials == 0 {
		def := proj.DefaultOptions()
		merged := opts
		if merged.RouteStep == 0 {
			merged.RouteStep = def.RouteStep
		}
		if merged.MinRouteStep == 0 {
			merged.MinRouteStep = def.MinRouteStep
		}
		if merged.CourantFactor == 0 {
			merged.CourantFactor = def.CourantFactor
		}
		if merged.MaxTrials == 0 {
			merged.MaxTrials = def.MaxTrials
		}
		if merged.HeadTol == 0 {
			merged.HeadTol = def.HeadTol
		}
		if merged.MinSurfArea == 0 {
			merged.MinSurfArea = def.MinSurfArea
		}
		opts = merged
	}
	p := proj.New(opts)
	nm := newNames()

	for _, d := range doc.TimeSeries {
		nm.tseries[d.ID] = proj.Ref(len(p.TSeries))
		p.TSeries = append(p.TSeries, &proj.TimeSeries{ID: d.ID, Time: d.Time, Val: d.Val})
	}

	for _, d := range doc.Patterns {
		kind, ok := patternKinds[d.Kind]
		if !ok {
			return nil, chk.Err("inp: pattern %q: unknown kind %q", d.ID, d.Kind)
		}
		nm.pattern[d.ID] = proj.Ref(len(p.Patterns))
		p.Patterns = append(p.Patterns, &proj.Pattern{ID: d.ID, Kind: kind, Mults: d.Mults})
	}

	for _, d := range doc.Curves {
		typ, ok := curveTypes[d.Type]
		if !ok {
			return nil, chk.Err("inp: curve %q: unknown type %q", d.ID, d.Type)
		}
		nm.curve[d.ID] = proj.Ref(len(p.Curves))
		p.Curves = append(p.Curves, &proj.Curve{ID: d.ID, Type: typ, X: d.X, Y: d.Y})
	}

	for _, d := range doc.Pollutants {
		nm.pollut[d.ID] = proj.Ref(len(p.Pollutants))
		p.Pollutants = append(p.Pollutants, &proj.Pollutant{
			ID: d.ID, DecayRateRunoff: d.DecayRateRunoff, DecayRatePipe: d.DecayRatePipe,
			DWFConc: d.DWFConc, InitConc: d.InitConc, CoPollutRef: proj.NoRef,
		})
	}

	for _, d := range doc.Landuses {
		lu := &proj.Landuse{ID: d.ID, SweptFrac: d.SweptFrac, SweptDays: d.SweptDays, SweptEff: d.SweptEff}
		for _, q := range d.Quality {
			pollRef, err := nm.lookupPollut(q.Pollutant)
			if err != nil {
				return nil, err
			}
			buildup := proj.BuildupNone
			if q.Buildup != "" {
				var ok bool
				buildup, ok = buildupFuncs[q.Buildup]
				if !ok {
					return nil, chk.Err("inp: landuse %q: unknown buildup function %q", d.ID, q.Buildup)
				}
			}
			washoff := proj.WashoffNone
			if q.Washoff != "" {
				var ok bool
				washoff, ok = washoffFuncs[q.Washoff]
				if !ok {
					return nil, chk.Err("inp: landuse %q: unknown washoff function %q", d.ID, q.Washoff)
				}
			}
			lu.Quality = append(lu.Quality, proj.LanduseQuality{
				PollutRef: pollRef, Buildup: buildup, BuildupC1: q.BuildupC1, BuildupC2: q.BuildupC2,
				BuildupC3: q.BuildupC3, PerCurbLen: q.PerCurbLen, Washoff: washoff,
				WashoffC1: q.WashoffC1, WashoffC2: q.WashoffC2, EMC: q.EMC,
			})
		}
		nm.landuse[d.ID] = proj.Ref(len(p.Landuses))
		p.Landuses = append(p.Landuses, lu)
	}

	for _, d := range doc.Gages {
		tsRef, err := nm.lookupTSeries(d.TimeSeries)
		if err != nil {
			return nil, err
		}
		nm.gage[d.ID] = proj.Ref(len(p.Gages))
		p.Gages = append(p.Gages, &proj.Gage{
			ID: d.ID, Source: proj.SourceTimeSeries, TSeries: tsRef,
			RecordingInterval: d.RecordingInterval, CoGage: proj.NoRef,
		})
	}

	for _, d := range doc.Nodes {
		kind, ok := nodeKinds[d.Kind]
		if !ok {
			return nil, chk.Err("inp: node %q: unknown kind %q", d.ID, d.Kind)
		}
		n := &proj.Node{
			ID: d.ID, Kind: kind, InvertElev: d.InvertElev, FullDepth: d.FullDepth,
			SurchargeDepth: d.SurchargeDepth, PondedArea: d.PondedArea, InitDepth: d.InitDepth,
			RdiiUnitHydRef: proj.NoRef,
		}
		if d.Outfall != nil {
			bt, ok := outfallTypes[d.Outfall.Type]
			if !ok {
				return nil, chk.Err("inp: node %q: unknown outfall type %q", d.ID, d.Outfall.Type)
			}
			n.Outfall = &proj.OutfallData{BoundaryType: bt, FixedStage: d.Outfall.FixedStage, HasFlapGate: d.Outfall.HasFlapGate}
		}
		if d.Storage != nil {
			curveRef, err := nm.lookupCurve(d.Storage.CurveRef)
			if err != nil {
				return nil, err
			}
			n.StorageDat = &proj.StorageData{CurveRef: curveRef, ConstArea: d.Storage.ConstArea, ExfilRate: d.Storage.ExfilRate, EvapFactor: d.Storage.EvapFactor}
		}
		for _, ei := range d.ExtInflows {
			tsRef, err := nm.lookupTSeries(ei.TimeSeries)
			if err != nil {
				return nil, err
			}
			patRef, err := nm.lookupPattern(ei.Pattern)
			if err != nil {
				return nil, err
			}
			pollRef, err := nm.lookupPollut(ei.Pollutant)
			if err != nil {
				return nil, err
			}
			n.ExtInflows = append(n.ExtInflows, proj.ExtInflow{
				TSeriesRef: tsRef, PatternRef: patRef, Baseline: ei.Baseline,
				ScaleFactor: ei.ScaleFactor, IsFlow: ei.Pollutant == "", PollutRef: pollRef,
			})
		}
		for _, dwf := range d.DwfInflows {
			var patRefs [4]proj.Ref
			for i := range patRefs {
				patRefs[i] = proj.NoRef
			}
			for i, pname := range dwf.Patterns {
				if i >= 4 {
					break
				}
				ref, err := nm.lookupPattern(pname)
				if err != nil {
					return nil, err
				}
				patRefs[i] = ref
			}
			pollRef, err := nm.lookupPollut(dwf.Pollutant)
			if err != nil {
				return nil, err
			}
			n.DwfInflows = append(n.DwfInflows, proj.DwfInflow{AvgValue: dwf.AvgValue, PatternRefs: patRefs, PollutRef: pollRef})
		}
		for _, tr := range d.Treatments {
			pollRef, err := nm.lookupPollut(tr.Pollutant)
			if err != nil {
				return nil, err
			}
			if pollRef == proj.NoRef {
				return nil, chk.Err("inp: node %q: treatment missing pollutant", d.ID)
			}
			n.Treatments = append(n.Treatments, proj.Treatment{PollutRef: pollRef, Expr: tr.Expr, IsRemoval: tr.IsRemoval})
		}
		nm.node[d.ID] = proj.Ref(len(p.Nodes))
		p.Nodes = append(p.Nodes, n)
	}

	for _, d := range doc.Links {
		kind, ok := linkKinds[d.Kind]
		if !ok {
			return nil, chk.Err("inp: link %q: unknown kind %q", d.ID, d.Kind)
		}
		n1, err := nm.lookupNode(d.Node1)
		if err != nil {
			return nil, err
		}
		n2, err := nm.lookupNode(d.Node2)
		if err != nil {
			return nil, err
		}
		xs, err := d.XSect.build()
		if err != nil {
			return nil, chk.Err("inp: link %q: %v", d.ID, err)
		}
		if xs != nil && d.Roughness != 0 {
			xs.Roughness = d.Roughness
		}
		barrels := d.Barrels
		if barrels == 0 {
			barrels = 1
		}
		l := &proj.Link{
			ID: d.ID, Kind: kind, Node1: n1, Node2: n2, Direction: 1,
			InOffset: d.InOffset, OutOffset: d.OutOffset, InitFlow: d.InitFlow,
			XSect: xs, Length: d.Length, Barrels: barrels,
		}
		p.Links = append(p.Links, l)
		if n1 != proj.NoRef {
			p.Nodes[n1].OutLinks = append(p.Nodes[n1].OutLinks, proj.Ref(len(p.Links)-1))
			p.Nodes[n1].Degree++
		}
		if n2 != proj.NoRef {
			p.Nodes[n2].InLinks = append(p.Nodes[n2].InLinks, proj.Ref(len(p.Links)-1))
			p.Nodes[n2].Degree++
		}
	}

	for _, d := range doc.Subcatchments {
		gageRef, err := nm.lookupGage(d.Gage)
		if err != nil {
			return nil, err
		}
		var outlet proj.Outlet
		switch {
		case d.OutletNode != "":
			ref, err := nm.lookupNode(d.OutletNode)
			if err != nil {
				return nil, err
			}
			outlet = proj.Outlet{Kind: proj.OutletNode, Ref: ref}
		case d.OutletSubc != "":
			outlet = proj.Outlet{Kind: proj.OutletSubcatch, Ref: proj.NoRef} // resolved in a second pass below
		default:
			outlet = proj.Outlet{Kind: proj.OutletNone, Ref: proj.NoRef}
		}
		s := &proj.Subcatchment{
			ID: d.ID, GageRef: gageRef, Outlet: outlet,
			Area: d.Area, Width: d.Width, Slope: d.Slope, FracImperv: d.FracImperv,
			SubAreas: [3]proj.SubArea{
				{FracArea: d.Imperv.FracArea, Roughness: d.Imperv.Roughness, DStore: d.Imperv.DStore},
				{FracArea: d.ImpervDep.FracArea, Roughness: d.ImpervDep.Roughness, DStore: d.ImpervDep.DStore},
				{FracArea: d.Pervious.FracArea, Roughness: d.Pervious.Roughness, DStore: d.Pervious.DStore},
			},
			Infil: proj.Infiltration{ModelName: d.InfilModel, Params: d.InfilParams},
		}
		for _, la := range d.Landuses {
			luRef, err := nm.lookupLanduse(la.Landuse)
			if err != nil {
				return nil, err
			}
			s.Landuses = append(s.Landuses, proj.LanduseArea{LanduseRef: luRef, Frac: la.Frac})
		}
		p.Subcatchs = append(p.Subcatchs, s)
	}

	// resolve subcatchment-to-subcatchment outlets now that every
	// subcatchment ID is registered (they may reference a subcatchment
	// declared later in the document).
	subcIndex := make(map[string]proj.Ref, len(doc.Subcatchments))
	for i, d := range doc.Subcatchments {
		subcIndex[d.ID] = proj.Ref(i)
	}
	for i, d := range doc.Subcatchments {
		if d.OutletSubc == "" {
			continue
		}
		ref, ok := subcIndex[d.OutletSubc]
		if !ok {
			return nil, chk.Err("inp: subcatchment %q: unknown outlet subcatchment %q", d.ID, d.OutletSubc)
		}
		p.Subcatchs[i].Outlet = proj.Outlet{Kind: proj.OutletSubcatch, Ref: ref}
	}

	return p, nil
}

func (n *names) lookupCurve(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.curve[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown curve %q", id)
	}
	return ref, nil
}

func (n *names) lookupGage(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.gage[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown gage %q", id)
	}
	return ref, nil
}

func (n *names) lookupPollut(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.pollut[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown pollutant %q", id)
	}
	return ref, nil
}

func (n *names) lookupLanduse(id string) (proj.Ref, error) {
	if id == "" {
		return proj.NoRef, nil
	}
	ref, ok := n.landuse[id]
	if !ok {
		return proj.NoRef, chk.Err("inp: unknown landuse %q", id)
	}
	return ref, nil
}
