package posts

// CanMutatePost reports whether the actor may update or delete the post:
// its author or a privileged actor
func CanMutatePost(actor Actor, post *PostView) bool {
	if post == nil || actor.ID == "" {
		return false
	}
	return actor.ID == post.Author.ID || actor.IsPrivileged()
}

// CanDeleteComment reports whether the actor may remove the comment:
// the comment author, the post author, or a privileged actor
func CanDeleteComment(actor Actor, post *PostView, comment *CommentView) bool {
	if post == nil || comment == nil || actor.ID == "" {
		return false
	}
	return actor.ID == comment.Author.ID ||
		actor.ID == post.Author.ID ||
		actor.IsPrivileged()
}
