package templates

const BarChartTemplate = `% Generated on {{.GeneratedDate}}
% Sweep ID: {{.SweepID}}
% Chart: {{.Name}}
\begin{tikzpicture}
	\begin{axis}[
		ybar,
		title={ {{.Title}} },
		xlabel={ {{.XLabel}} },
		ylabel={ {{.YLabel}} },
		width=\textwidth,
		height=0.62\textwidth,
		symbolic x coords={ {{.SymbolicCoords}} },
		xtick=data,
		x tick label style={rotate=45, anchor=east},
		ymajorgrids,
		grid style=dashed,
		{{if .Legend}}legend pos=north east,{{end}}
	]

{{range .Series}}
\addplot+[bar width=6pt]
  coordinates {
{{range .Coordinates}}    {{.}}
{{end}}  };
{{if .LegendEntry}}\addlegendentry{ {{.LegendEntry}} }{{end}}

{{end}}
	\end{axis}
\end{tikzpicture}
`

type BarChartData struct {
	GeneratedDate  string
	SweepID        string
	Name           string
	Title          string
	XLabel         string
	YLabel         string
	SymbolicCoords string
	Legend         bool
	Series         []BarSeries
}

type BarSeries struct {
	LegendEntry string
	Coordinates []string
}

const WrapperTemplate = `% Generated on {{.GeneratedDate}}
% Sweep ID: {{.SweepID}}
% Chart: {{.Name}}
\begin{center}
    \begin{figure}[H]
    \centering
    \resizebox{1\linewidth}{!}{\input{./{{.PlotFileName}} }}
    \caption[{{.ShortCaption}}]{ {{.Caption}} }
    \label{fig:sweep-{{.Name}}}
    \end{figure}
\end{center}
`

type WrapperData struct {
	GeneratedDate string
	SweepID       string
	Name          string
	PlotFileName  string
	ShortCaption  string
	Caption       string
}
