/*
Package pipe provides lazy, pull-based traversal stages that can be chained into
pipelines over a graph without copying it.

A Pipe reads from a source iterator and is itself an iterator.  Nothing happens
until a consumer calls HasNext or Next on the last stage; each call pulls only as
much from upstream as it needs.  Every stage buffers at most one lookahead result
through Peekable, so calling HasNext repeatedly never advances a stage.

Stages are typed by what they read and produce:

	out := pipe.NewPipeline[storage.Vertex, storage.Vertex](
		pipe.Erase(pipe.VertexEdges(storage.Out)),
		pipe.Erase(pipe.LabelFilter("created", pipe.NotEqual)),
		pipe.Erase(pipe.EdgeVertex(storage.In)),
	)
	out.SetSource(pipe.FromSlice(marko))

Then composes two typed stages without erasing types.

Pipes are not safe for concurrent use, with the exception of the branches of a
CopySplit and the Threaded and Parallel wrappers that run pipes on their own
goroutines.  Both wrappers stop their goroutines when their context is cancelled
or Close is called, so a consumer that stops pulling early should call Close.
Close and SetSource return only after the old goroutines have exited, so a new
source is never read by a goroutine started for the previous one.
*/
package pipe
